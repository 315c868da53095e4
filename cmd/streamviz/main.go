// Command streamviz renders diagnostic panel figures for fitted
// stream-membership models from a SQLite results database.
//
// Subcommands:
//
//	render   draw the PNG panels (and optionally an HTML report) for a run
//	import   load a JSON run file into the results database
//	migrate  manage the results database schema
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/banshee-data/streamviz/internal/diag"
	"github.com/banshee-data/streamviz/internal/htmlreport"
	"github.com/banshee-data/streamviz/internal/monitoring"
	"github.com/banshee-data/streamviz/internal/store"
	"github.com/banshee-data/streamviz/internal/stream"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// The option was renamed from the singular long ago; fail loudly
	// instead of silently ignoring an unknown flag spelling.
	for _, arg := range os.Args[1:] {
		if isDeprecatedCoordFlag(arg) {
			log.Fatal("flag -coord was removed: use -coords")
		}
	}

	switch os.Args[1] {
	case "render":
		runRender(os.Args[2:])
	case "import":
		runImport(os.Args[2:])
	case "migrate":
		runMigrate(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: streamviz <command> [flags]

Commands:
  render   -db results.db -run <id> -coords phi2[,plx...] [-o panels.png]
           [-html report.html] [-components stream,background] [-use-hist]
           [-bins N] [-min-weight W] [-log-weight] [-top-yscale linear|log]
           [-coord2par coord=param[,...]] [-v]
  import   -db results.db -json run.json
  migrate  <up|down|version> -db results.db [-migrations dir]`)
}

func runRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var (
		dbPath     = fs.String("db", "results.db", "Results database path")
		runID      = fs.String("run", "", "Run ID to render (defaults to the newest run)")
		coords     = fs.String("coords", "phi2", "Comma-separated dependent coordinates")
		components = fs.String("components", "stream", "Comma-separated components to overlay")
		indep      = fs.String("indep", diag.DefaultIndepCoord, "Independent coordinate column")
		out        = fs.String("o", "panels.png", "Output PNG path (empty to skip)")
		htmlOut    = fs.String("html", "", "Optional HTML report path")
		useHist    = fs.Bool("use-hist", false, "Render data as a log-density 2D histogram")
		bins       = fs.Int("bins", diag.DefaultBins, "Histogram bin count")
		minWeight  = fs.Float64("min-weight", diag.DefaultMinWeight, "Weight visibility cutoff")
		logWeight  = fs.Bool("log-weight", false, "Plot ln(weight) in the weight panel")
		topYScale  = fs.String("top-yscale", diag.DefaultTopYScale, "Weight panel y scale (linear|log)")
		coord2par  = fs.String("coord2par", "", "coord=param remapping pairs, comma-separated")
		verbose    = fs.Bool("v", false, "Verbose logging")
	)
	fs.Parse(args)
	monitoring.SetVerbose(*verbose)

	remap, err := parsePairs(*coord2par)
	if err != nil {
		log.Fatalf("Invalid -coord2par: %v", err)
	}
	opts := diag.Options{
		IndepCoord: *indep,
		UseHist:    *useHist,
		Bins:       diag.IntPtr(*bins),
		MinWeight:  diag.Float64Ptr(*minWeight),
		LogWeight:  *logWeight,
		TopYScale:  diag.StringPtr(*topYScale),
		Coord2Par:  remap,
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open results store: %v", err)
	}
	defer s.Close()

	id := *runID
	if id == "" {
		runs, err := s.ListRuns()
		if err != nil || len(runs) == 0 {
			log.Fatalf("No run specified and none found in %s", *dbPath)
		}
		id = runs[0]
		log.Printf("Rendering newest run %s", id)
	}

	data, mpars, err := s.LoadRun(id)
	if err != nil {
		log.Fatalf("Failed to load run: %v", err)
	}

	comps := stream.ComponentsFromNames(parseList(*components))
	coordList := parseList(*coords)

	if *out != "" {
		fig, err := diag.ModelPanels(nil, data, mpars, comps, coordList, opts)
		if err != nil {
			log.Fatalf("Failed to compose panels: %v", err)
		}
		if err := fig.Save(*out); err != nil {
			log.Fatalf("Failed to save figure: %v", err)
		}
		log.Printf("Wrote %s", *out)
	}

	if *htmlOut != "" {
		w, err := os.Create(*htmlOut)
		if err != nil {
			log.Fatalf("Failed to create HTML report: %v", err)
		}
		defer w.Close()
		if err := htmlreport.Render(w, data, mpars, comps, coordList, opts); err != nil {
			log.Fatalf("Failed to render HTML report: %v", err)
		}
		log.Printf("Wrote %s", *htmlOut)
	}
}

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	var (
		dbPath   = fs.String("db", "results.db", "Results database path")
		jsonPath = fs.String("json", "", "JSON run file to import")
		verbose  = fs.Bool("v", false, "Verbose logging")
	)
	fs.Parse(args)
	monitoring.SetVerbose(*verbose)

	if *jsonPath == "" {
		log.Fatal("Usage: streamviz import -db results.db -json run.json")
	}

	f, err := os.Open(*jsonPath)
	if err != nil {
		log.Fatalf("Failed to open run file: %v", err)
	}
	defer f.Close()

	data, mpars, err := store.DecodeRunFile(f)
	if err != nil {
		log.Fatalf("Failed to parse run file: %v", err)
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open results store: %v", err)
	}
	defer s.Close()

	runID, err := s.ImportRun(data, mpars)
	if err != nil {
		log.Fatalf("Failed to store run: %v", err)
	}
	fmt.Println(runID)
}

func runMigrate(args []string) {
	if len(args) < 1 {
		log.Fatal("Usage: streamviz migrate <up|down|version> -db results.db [-migrations dir]")
	}
	action := args[0]

	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	var (
		dbPath        = fs.String("db", "results.db", "Results database path")
		migrationsDir = fs.String("migrations", store.DefaultMigrationsDir, "Migrations directory")
	)
	fs.Parse(args[1:])

	s, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open results store: %v", err)
	}
	defer s.Close()

	switch action {
	case "up":
		if err := s.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("All migrations applied")
	case "down":
		if err := s.MigrateDown(*migrationsDir); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("Rolled back one migration")
	case "version":
		version, dirty, err := s.MigrateVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
		log.Printf("Current version: %d (dirty: %v)", version, dirty)
	default:
		log.Fatalf("Unknown migrate action: %s", action)
	}
}

// isDeprecatedCoordFlag matches the removed singular -coord flag in any of
// its spellings without matching -coords or -coord2par.
func isDeprecatedCoordFlag(arg string) bool {
	for _, form := range []string{"-coord", "--coord"} {
		if arg == form || strings.HasPrefix(arg, form+"=") {
			return true
		}
	}
	return false
}

// parseList splits a comma-separated flag value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePairs parses "a=b,c=d" into a map. Empty input yields nil.
func parsePairs(s string) (map[string]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	out := map[string]string{}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" || strings.TrimSpace(kv[1]) == "" {
			return nil, fmt.Errorf("malformed pair %q", part)
		}
		out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return out, nil
}
