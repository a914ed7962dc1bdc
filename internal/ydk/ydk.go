// Package ydk reads and writes .ydk deck files.
//
// A file lists one card identifier per line under section markers:
//
//	#main
//	55144522
//
//	#extra
//	83764719
//
//	!side
//	12345678
//
// The main section is always written, extra and side only when non-empty.
package ydk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ygo/ydk-maker/internal/models"
)

const (
	DefaultExtension = ".ydk"

	MainHeader  = "#main"
	ExtraHeader = "#extra"
	SideHeader  = "!side"
)

// ErrEmptyFileName is returned when no output file name was given
var ErrEmptyFileName = errors.New("empty file name")

// Format renders deck in .ydk layout
func Format(deck models.Deck) string {
	var b strings.Builder

	b.WriteString(MainHeader + "\n")
	b.WriteString(strings.Join(deck.Main, "\n") + "\n")
	if len(deck.Extra) > 0 {
		b.WriteString("\n" + ExtraHeader + "\n")
		b.WriteString(strings.Join(deck.Extra, "\n") + "\n")
	}
	if len(deck.Side) > 0 {
		b.WriteString("\n" + SideHeader + "\n")
		b.WriteString(strings.Join(deck.Side, "\n") + "\n")
	}

	return b.String()
}

// WriteFile writes deck to path, replacing any existing file
func WriteFile(path string, deck models.Deck) error {
	if err := os.WriteFile(path, []byte(Format(deck)), 0o644); err != nil {
		return fmt.Errorf("failed to write ydk file: %w", err)
	}
	return nil
}

// Parse reads a .ydk file back into a deck. Lines starting with # or !
// other than the section markers are comments.
func Parse(r io.Reader) (models.Deck, error) {
	var deck models.Deck
	current := models.Main

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, MainHeader):
			current = models.Main
		case strings.EqualFold(line, ExtraHeader):
			current = models.Extra
		case strings.EqualFold(line, SideHeader):
			current = models.Side
		case strings.HasPrefix(line, "#"), strings.HasPrefix(line, "!"):
			continue
		default:
			deck.Add(current, line, 1)
		}
	}
	if err := scanner.Err(); err != nil {
		return models.Deck{}, fmt.Errorf("error reading ydk: %w", err)
	}

	return deck, nil
}

// ReadFile parses the .ydk file at path
func ReadFile(path string) (models.Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Deck{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// EnsureExtension trims name and appends ext unless name already ends with it
func EnsureExtension(name, ext string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyFileName
	}
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasSuffix(name, ext) {
		name += ext
	}
	return name, nil
}
