package ociconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// KeyFileKey is the entry holding the path to a profile's private key.
const KeyFileKey = "key_file"

// DefaultProfile is the section name conventionally used for the default profile.
const DefaultProfile = "DEFAULT"

// Config is the parsed content of a credentials file.
type Config struct {
	profiles map[string]map[string]string

	// FoundDefault reports whether a section named exactly DEFAULT was seen.
	// Nothing in this package acts on it.
	FoundDefault bool
}

// parser accumulates sections line by line.
type parser struct {
	cfg     *Config
	current map[string]string
	lineNo  int
}

func (p *parser) accept(line string) error {
	p.lineNo++
	trimmed := strings.TrimSpace(line)

	if trimmed == "" || trimmed[0] == '#' {
		return nil
	}

	if trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']' {
		name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		if name == "" {
			return &SyntaxError{Line: p.lineNo, Text: line, Reason: "empty profile name"}
		}
		if name == DefaultProfile {
			p.cfg.FoundDefault = true
		}
		section, ok := p.cfg.profiles[name]
		if !ok {
			section = make(map[string]string)
			p.cfg.profiles[name] = section
		}
		p.current = section
		return nil
	}

	key, value, ok := strings.Cut(trimmed, "=")
	if !ok {
		return &SyntaxError{Line: p.lineNo, Text: line, Reason: "no key-value pair"}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return &SyntaxError{Line: p.lineNo, Text: line, Reason: "no key"}
	}
	if p.current == nil {
		return &SyntaxError{Line: p.lineNo, Text: line, Reason: "no section specified"}
	}

	p.current[key] = strings.TrimSpace(value)
	return nil
}

// Parse reads a credentials file from r. The content must already be UTF-8.
func Parse(r io.Reader) (*Config, error) {
	p := &parser{cfg: &Config{profiles: make(map[string]map[string]string)}}

	// Lines have no length limit, so read them whole instead of scanning.
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if acceptErr := p.accept(line); acceptErr != nil {
				return nil, acceptErr
			}
		}
		if err != nil {
			return p.cfg, nil
		}
	}
}

// ParseFile opens path and parses it, decoding with enc. A nil enc means
// UTF-8; a leading byte order mark is dropped in that case.
func ParseFile(path string, enc encoding.Encoding) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is caller-provided configuration
	if err != nil {
		return nil, fmt.Errorf("open credentials file %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	if enc == nil {
		enc = unicode.UTF8BOM
	}
	cfg, err := Parse(transform.NewReader(f, enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Profile returns the entries of the named profile.
func (c *Config) Profile(name string) (map[string]string, bool) {
	section, ok := c.profiles[name]
	return section, ok
}

// Profiles returns all profile names in sorted order.
func (c *Config) Profiles() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KeyFile returns the key_file entry of the named profile.
func (c *Config) KeyFile(profile string) (string, error) {
	section, ok := c.profiles[profile]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrProfileNotFound, profile)
	}
	keyFile, ok := section[KeyFileKey]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrKeyFileNotFound, profile)
	}
	return keyFile, nil
}

// KeyFilePath parses the UTF-8 credentials file at path and returns the
// key_file entry of profile.
func KeyFilePath(path, profile string) (string, error) {
	cfg, err := ParseFile(path, nil)
	if err != nil {
		return "", err
	}
	return cfg.KeyFile(profile)
}
