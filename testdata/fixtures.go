// Package testdata holds level documents shared by package tests.
package testdata

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed levels/*
var levelsFS embed.FS

// Levels returns the fixture level documents rooted at the levels directory.
func Levels() fs.FS {
	sub, err := fs.Sub(levelsFS, "levels")
	if err != nil {
		panic(err)
	}
	return sub
}

// LevelDocument returns the raw bytes of a fixture level document.
func LevelDocument(name string) ([]byte, error) {
	data, err := levelsFS.ReadFile("levels/" + name)
	if err != nil {
		return nil, fmt.Errorf("load level document %s: %w", name, err)
	}
	return data, nil
}
