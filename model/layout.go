package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	litChar   = 'O'
	unlitChar = '.'
)

var ErrBadLayout = errors.New("bad layout")

// ReadLayouts parses a layouts file. Layouts are separated by blank lines,
// each starts with a "# name" line followed by one line per row.
func ReadLayouts(reader io.Reader) (Layouts, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	layouts := make(Layouts, 0)
	var current *Layout
	line := 0

	closeLayout := func() error {
		if current == nil {
			return nil
		}
		if err := current.Grid.Validate(); err != nil {
			return fmt.Errorf("%w %q before line %d: %v", ErrBadLayout, current.Name, line, err)
		}
		layouts = append(layouts, *current)
		current = nil
		return nil
	}

	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		switch {
		case s == "":
			if err := closeLayout(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(s, "#"):
			if err := closeLayout(); err != nil {
				return nil, err
			}
			name := strings.TrimSpace(strings.TrimPrefix(s, "#"))
			if name == "" {
				return nil, fmt.Errorf("%w: line %d: empty name", ErrBadLayout, line)
			}
			if _, found := layouts.Find(name); found {
				return nil, fmt.Errorf("%w: line %d: duplicate name %q", ErrBadLayout, line, name)
			}
			current = &Layout{Name: name, Grid: make(Grid, 0)}
		default:
			if current == nil {
				return nil, fmt.Errorf("%w: line %d: row outside of a layout", ErrBadLayout, line)
			}
			row := make([]bool, 0, len(s))
			for _, char := range s {
				switch char {
				case litChar:
					row = append(row, true)
				case unlitChar:
					row = append(row, false)
				default:
					return nil, fmt.Errorf("%w: line %d: unexpected %q", ErrBadLayout, line, char)
				}
			}
			current.Grid = append(current.Grid, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := closeLayout(); err != nil {
		return nil, err
	}
	return layouts, nil
}

func (l Layouts) Find(name string) (Grid, bool) {
	for _, layout := range l {
		if layout.Name == name {
			return layout.Grid.Clone(), true
		}
	}
	return nil, false
}

func (l Layouts) Names() []string {
	names := make([]string, 0, len(l))
	for _, layout := range l {
		names = append(names, layout.Name)
	}
	return names
}
