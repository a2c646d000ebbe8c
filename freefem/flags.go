package freefem

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSectionNotFound    = errors.New("section not found in solver output")
	ErrInvalidSectionName = errors.New("invalid section name")
)

/*
Flagize derives the sentinel line that introduces the section called name.
Distinct names give distinct sentinels, as long as they contain no line
breaks, which Section rejects.
*/
func Flagize(name string) string {
	return "# " + name
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("%q: %w", name, ErrInvalidSectionName)
	}
	return nil
}

// Section returns the text following the sentinel line for name, up to the
// next occurrence of that sentinel or the end of the blob
func Section(blob, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return SectionByFlag(blob, Flagize(name))
}

// SectionByFlag frames a section by its literal sentinel text
func SectionByFlag(blob, flag string) (section string, err error) {
	if strings.TrimSpace(flag) == "" {
		return "", fmt.Errorf("empty flag: %w", ErrInvalidSectionName)
	}
	sections, err := frame(blob, []string{flag})
	if err != nil {
		return
	}
	return sections[flag], nil
}

/*
Sections frames several named sections at once. Besides its own sentinel,
each section also ends where the sentinel of any other requested name
starts, so that unterminated sections laid out back to back split cleanly.
*/
func Sections(blob string, names ...string) (sections map[string]string, err error) {
	var (
		flags  = make([]string, len(names))
		framed map[string]string
	)
	for i, name := range names {
		if err = checkName(name); err != nil {
			return
		}
		flags[i] = Flagize(name)
	}
	if framed, err = frame(blob, flags); err != nil {
		return
	}
	sections = make(map[string]string, len(names))
	for i, name := range names {
		sections[name] = framed[flags[i]]
	}
	return
}

// frame finds the first whole-line occurrence of each flag, and cuts its
// section at the next line that matches any of the flags
func frame(blob string, flags []string) (sections map[string]string, err error) {
	var (
		lines   = strings.SplitAfter(blob, "\n")
		isFlag  = make(map[string]bool, len(flags))
		starts  = make(map[string]int, len(flags))
		offsets = make([]int, len(lines)+1)
	)
	for _, flag := range flags {
		isFlag[flag] = true
	}
	for i, line := range lines {
		offsets[i+1] = offsets[i] + len(line)
	}
	lineFlag := func(i int) string {
		return strings.TrimRight(lines[i], "\r\n")
	}
	for i := range lines {
		f := lineFlag(i)
		if _, seen := starts[f]; isFlag[f] && !seen {
			starts[f] = i
		}
	}
	sections = make(map[string]string, len(flags))
	for _, flag := range flags {
		start, ok := starts[flag]
		if !ok {
			return nil, fmt.Errorf("%q: %w", flag, ErrSectionNotFound)
		}
		end := len(lines)
		for i := start + 1; i < len(lines); i++ {
			if isFlag[lineFlag(i)] {
				end = i
				break
			}
		}
		sections[flag] = blob[offsets[start+1]:offsets[end]]
	}
	return
}
