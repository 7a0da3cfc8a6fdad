package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/joshuapare/slotkit/ab"
)

var (
	varNameRE   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	shellSafeRE = regexp.MustCompile(`^[A-Za-z0-9_./:@%+=,-]+$`)
)

// envVar is one exported assignment.
type envVar struct {
	Name  string
	Value string
}

// exportVars lists the assignments for id, skipping unnamed variables.
func exportVars(e ExportConfig, id ab.Identity) ([]envVar, error) {
	var out []envVar
	for _, v := range []envVar{
		{e.SlotVar, id.Letter},
		{e.NameVar, id.Name},
		{e.UUIDVar, id.UUID},
	} {
		if v.Name == "" {
			continue
		}
		if !varNameRE.MatchString(v.Name) {
			return nil, fmt.Errorf("invalid variable name %q", v.Name)
		}
		out = append(out, v)
	}
	return out, nil
}

// shellQuote returns s in a form a POSIX shell reads back verbatim.
func shellQuote(s string) string {
	if shellSafeRE.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// writeVars prints NAME=value lines to w.
func writeVars(w io.Writer, vars []envVar) error {
	for _, v := range vars {
		if _, err := fmt.Fprintf(w, "%s=%s\n", v.Name, shellQuote(v.Value)); err != nil {
			return err
		}
	}
	return nil
}

// appendEnvFile appends vars to path, creating it if needed.
func appendEnvFile(path string, vars []envVar) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := writeVars(f, vars); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
