package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/keshon/sandbox-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// ErrInvalidDefinition marks a definition file the loader refuses.
var ErrInvalidDefinition = errors.New("invalid command definition")

const definitionExt = ".json"

type definitionFile struct {
	category string
	path     string
}

// Load builds the command table from the definition files under root.
//
// Definitions live in category folders (root/<category>/<name>.json) or
// directly under root. Folders are read before loose files, each in lexical
// order; when two files declare the same name the one read last wins. Every
// definition must have a handler registered under its name.
//
// A missing root yields an empty table. Loading is finished when Load
// returns, so the table can be handed to readers right away.
func Load(fsys fs.FS, root string, handlers map[string]HandlerFunc, log zerolog.Logger, mws ...cmd.Middleware) (*cmd.Registry, error) {
	table := cmd.NewRegistry()

	entries, err := fs.ReadDir(fsys, root)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", root).Msg("commands directory not found")
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read commands directory %s: %w", root, err)
	}

	var files []definitionFile
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := path.Join(root, e.Name())
		sub, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("read category %s: %w", dir, err)
		}
		for _, f := range sub {
			if f.IsDir() || !isDefinition(f.Name()) {
				continue
			}
			files = append(files, definitionFile{category: e.Name(), path: path.Join(dir, f.Name())})
		}
	}
	for _, e := range entries {
		if e.IsDir() || !isDefinition(e.Name()) {
			continue
		}
		files = append(files, definitionFile{path: path.Join(root, e.Name())})
	}

	for _, f := range files {
		d, err := loadDefinition(fsys, f, handlers)
		if err != nil {
			return nil, err
		}
		if table.Register(cmd.Apply(d, mws...)) {
			log.Debug().Str("command", d.Name()).Str("source", f.path).Msg("command redefined, later definition wins")
		}
	}

	log.Info().Int("count", table.Len()).Msg("commands loaded")
	return table, nil
}

func isDefinition(name string) bool {
	return strings.HasSuffix(name, definitionExt) && !strings.HasPrefix(name, ".")
}

func loadDefinition(fsys fs.FS, f definitionFile, handlers map[string]HandlerFunc) (*Descriptor, error) {
	data, err := fs.ReadFile(fsys, f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var def discordgo.ApplicationCommand
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", f.path, ErrInvalidDefinition, err)
	}

	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	switch {
	case def.Name == "":
		return nil, fmt.Errorf("%s: %w: missing name", f.path, ErrInvalidDefinition)
	case def.Description == "":
		return nil, fmt.Errorf("%s: %w: command %q has no description", f.path, ErrInvalidDefinition, def.Name)
	case def.Type != discordgo.ChatApplicationCommand:
		return nil, fmt.Errorf("%s: %w: command %q is not a chat-input command", f.path, ErrInvalidDefinition, def.Name)
	}

	h, ok := handlers[def.Name]
	if !ok || h == nil {
		return nil, fmt.Errorf("%s: %w: no handler registered for %q", f.path, ErrInvalidDefinition, def.Name)
	}

	return &Descriptor{
		Definition: &def,
		Category:   f.category,
		Source:     f.path,
		Handler:    h,
	}, nil
}
