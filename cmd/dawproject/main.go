// Command dawproject loads a project file, migrating it to the current
// schema version if needed, and either prints a summary or rewrites it
// in place at the current version.
package main

import (
	"fmt"
	"os"

	"github.com/antikkorps/godaw/pkg/project"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {
	var (
		migrateInPlace = pflag.Bool("migrate", false, "rewrite the file at the current schema version")
		verbose        = pflag.BoolP("verbose", "v", false, "enable debug logging")
	)
	pflag.Parse()

	logger := log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: dawproject [--migrate] <project.json>")
		os.Exit(2)
	}
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		logger.Fatal("open project file failed", "err", err)
	}
	doc, err := project.Load(f)
	f.Close()
	if err != nil {
		logger.Fatal("load project failed", "err", err)
	}

	fmt.Printf("%-24s v%-8s %dHz %.1fBPM %d/%d  %d pattern(s), metronome=%v, loop=%v\n",
		doc.Header.Name, doc.Header.Version, int(doc.SampleRate), doc.TempoBPM,
		doc.Numerator, doc.Denominator, len(doc.Patterns), doc.Metronome.Enabled, doc.Loop.Enabled)

	if *migrateInPlace {
		out, err := os.Create(path)
		if err != nil {
			logger.Fatal("rewrite project file failed", "err", err)
		}
		defer out.Close()
		if err := project.Save(out, doc); err != nil {
			logger.Fatal("save project failed", "err", err)
		}
		logger.Info("migrated project to current version", "path", path, "version", project.CurrentVersion.String())
	}
}
