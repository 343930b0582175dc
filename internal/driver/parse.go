package driver

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"spinet/internal/diag"
	"spinet/internal/netlist"
	"spinet/internal/source"
	"spinet/internal/spice"
)

// DefaultMaxDiagnostics caps per-file bags when Options.MaxDiagnostics is
// unset. Broken legacy decks can warn on nearly every line; past this point
// more output stops being useful.
const DefaultMaxDiagnostics = 100

// Options configures the driver entry points.
type Options struct {
	// MaxDiagnostics caps each bag. Zero or negative selects
	// DefaultMaxDiagnostics.
	MaxDiagnostics int
	// SkipIncludes leaves .INCLUDE/.LIB targets unread; the circuit then
	// carries only the recorded path strings.
	SkipIncludes bool
	// IncludeDirs are searched for include targets after the including
	// file's own directory.
	IncludeDirs []string
	// Cache, when set, short-circuits repeat parses of unchanged decks.
	// It is only consulted on the default include-resolving path.
	Cache *Cache
	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger
	// Jobs bounds ParseAll parallelism. Zero or negative means GOMAXPROCS.
	Jobs int
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) newBag() *diag.Bag {
	limit := o.MaxDiagnostics
	if limit <= 0 {
		limit = DefaultMaxDiagnostics
	}
	return diag.NewBag(limit)
}

// Result is one parsed netlist with everything needed to report on it.
type Result struct {
	// Path is the root file as given by the caller, empty for text input.
	Path    string
	Circuit *netlist.Circuit
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	// IncludePaths are the absolute paths of every include actually read,
	// in resolution order.
	IncludePaths []string
	// FromCache reports that Circuit was restored from the disk cache
	// instead of being parsed.
	FromCache bool
}

// ParseText parses an in-memory deck under the given circuit name. Include
// directives are recorded but never read; text input has no directory to
// anchor them to.
func ParseText(name, content string, opts Options) *Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(content))
	file := fs.Get(id)

	bag := opts.newBag()
	start := time.Now()
	circuit := spice.Parse(file, name, spice.Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})
	opts.logger().Debug("parsed netlist text",
		"name", name,
		"components", len(circuit.Components),
		"subckts", len(circuit.Subckts),
		"diagnostics", bag.Len(),
		"elapsed", time.Since(start))

	return &Result{
		Circuit: circuit,
		FileSet: fs,
		File:    file,
		Bag:     bag,
	}
}

// ParseFile loads a deck from disk and parses it, deriving the circuit name
// from the file basename. Unless Options.SkipIncludes is set, recorded
// .INCLUDE/.LIB paths are then resolved recursively and the included
// subckt, model and param tables are merged into the root circuit,
// later definitions winning. A missing or cyclic include is a warning in
// the bag, never a hard failure; only an unreadable root file errors.
func ParseFile(path string, opts Options) (*Result, error) {
	log := opts.logger()
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(id)
	bag := opts.newBag()

	if cached, ok := lookupCache(fs, file, opts); ok {
		log.Debug("cache hit", "path", path)
		cached.Path = path
		cached.Bag = bag
		return cached, nil
	}

	start := time.Now()
	circuit := spice.Parse(file, circuitName(path), spice.Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})

	var stamps []IncludeStamp
	if !opts.SkipIncludes {
		ir := newIncludeResolver(fs, bag, opts)
		ir.expand(circuit, circuit.Includes, filepath.Dir(path), path)
		stamps = ir.stamps
	}

	log.Debug("parsed netlist",
		"path", path,
		"components", len(circuit.Components),
		"subckts", len(circuit.Subckts),
		"includes", len(stamps),
		"diagnostics", bag.Len(),
		"elapsed", time.Since(start))

	result := &Result{
		Path:    path,
		Circuit: circuit,
		FileSet: fs,
		File:    file,
		Bag:     bag,
	}
	for _, stamp := range stamps {
		result.IncludePaths = append(result.IncludePaths, stamp.Path)
	}

	storeCache(file, circuit, stamps, bag, opts)
	return result, nil
}

// circuitName derives the default circuit name from a file path: the
// basename without its extension.
func circuitName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// lookupCache restores a previously parsed circuit when the root content
// hash matches and every include it read back then is still byte-identical.
func lookupCache(fs *source.FileSet, file *source.File, opts Options) (*Result, bool) {
	if opts.Cache == nil || opts.SkipIncludes {
		return nil, false
	}
	var payload Payload
	ok, err := opts.Cache.Get(file.Hash, &payload)
	if err != nil || !ok {
		return nil, false
	}
	if payload.Schema != cacheSchemaVersion || payload.Circuit == nil {
		return nil, false
	}

	paths := make([]string, 0, len(payload.Includes))
	for _, stamp := range payload.Includes {
		incID, err := fs.Load(stamp.Path)
		if err != nil || fs.Get(incID).Hash != stamp.Hash {
			return nil, false
		}
		paths = append(paths, stamp.Path)
	}
	return &Result{
		Circuit:      payload.Circuit,
		FileSet:      fs,
		File:         file,
		IncludePaths: paths,
		FromCache:    true,
	}, true
}

// storeCache persists a clean parse. Decks that produced diagnostics are
// never cached; a hit cannot replay them.
func storeCache(file *source.File, circuit *netlist.Circuit, stamps []IncludeStamp, bag *diag.Bag, opts Options) {
	if opts.Cache == nil || opts.SkipIncludes {
		return
	}
	if bag.Len() != 0 {
		return
	}
	payload := &Payload{
		Schema:   cacheSchemaVersion,
		Name:     circuit.Name,
		Circuit:  circuit,
		Includes: stamps,
	}
	if err := opts.Cache.Put(file.Hash, payload); err != nil {
		opts.logger().Debug("cache write failed", "error", err)
	}
}
