package text

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-text/typesetting/fontscan"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
)

// DefaultFamily is the family used when none is given.
const DefaultFamily = "Go"

var builtin = map[string][4][]byte{
	"go":           {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	"go mono":      {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
	"go smallcaps": {gosmallcaps.TTF, gosmallcaps.TTF, gosmallcapsitalic.TTF, gosmallcapsitalic.TTF},
}

var builtinNames = map[string]string{
	"go":           "Go",
	"go mono":      "Go Mono",
	"go smallcaps": "Go Smallcaps",
}

// BuiltinFamilies lists the families that need no host fonts.
func BuiltinFamilies() []string {
	return []string{"Go", "Go Mono", "Go Smallcaps"}
}

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for host font scanning. sketch.SetLogger
// forwards its logger here.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// printfLogger adapts slog to the fontscan logger interface.
type printfLogger struct{}

func (printfLogger) Printf(format string, args ...interface{}) {
	log().Debug("fontscan: " + fmt.Sprintf(format, args...))
}

type fontKey struct {
	family  string // normalized
	variant Variant
}

// Registry maps family names to fonts. A Registry is safe for concurrent
// use.
type Registry struct {
	mu    sync.Mutex
	fonts map[fontKey]*Font
	names map[string]string

	systemFonts bool
	cacheDir    string
	scanOnce    sync.Once
	fontMap     *fontscan.FontMap
	scanErr     error
}

// Option configures a Registry.
type Option func(*Registry)

// WithSystemFonts enables or disables lookup among installed fonts.
// Enabled by default.
func WithSystemFonts(enabled bool) Option {
	return func(r *Registry) { r.systemFonts = enabled }
}

// WithCacheDir sets the directory for the host font index. The default is
// a "sketch-fonts" directory under os.UserCacheDir.
func WithCacheDir(dir string) Option {
	return func(r *Registry) { r.cacheDir = dir }
}

// NewRegistry returns a registry holding the built-in families.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		fonts:       make(map[fontKey]*Font),
		names:       make(map[string]string),
		systemFonts: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry { return NewRegistry() })

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry()
}

func normalize(family string) string {
	f := strings.ToLower(strings.TrimSpace(family))
	if f == "" {
		return "go"
	}
	return f
}

// Register adds a font under family and variant, replacing any previous
// one.
func (r *Registry) Register(family string, v Variant, data []byte) error {
	f, err := ParseFont(family, v, data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := normalize(family)
	r.fonts[fontKey{n, v}] = f
	r.names[n] = family
	return nil
}

// Font returns the font for family and variant. A missing variant falls
// back to the regular face of the family. Families that are neither
// registered nor built in are looked up among installed fonts. The error
// wraps ErrFontNotFound when nothing matches.
func (r *Registry) Font(family string, v Variant) (*Font, error) {
	n := normalize(family)
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[fontKey{n, v}]; ok {
		return f, nil
	}
	if faces, ok := builtin[n]; ok {
		f, err := ParseFont(builtinNames[n], v, faces[v])
		if err != nil {
			return nil, err
		}
		r.fonts[fontKey{n, v}] = f
		r.names[n] = builtinNames[n]
		return f, nil
	}
	if v != Regular {
		if f, ok := r.fonts[fontKey{n, Regular}]; ok {
			return f, nil
		}
	}
	f, err := r.system(family, v)
	if err != nil {
		return nil, err
	}
	r.fonts[fontKey{n, v}] = f
	r.names[n] = family
	return f, nil
}

var variantSuffix = [...]string{Regular: "", BoldVariant: " Bold", Italic: " Italic", BoldItalic: " Bold Italic"}

// system resolves family among installed fonts. r.mu is held.
func (r *Registry) system(family string, v Variant) (*Font, error) {
	if !r.systemFonts {
		return nil, fmt.Errorf("%w: %q", ErrFontNotFound, family)
	}
	r.scanOnce.Do(r.scan)
	if r.scanErr != nil {
		return nil, fmt.Errorf("%w: %q: host fonts unavailable: %v", ErrFontNotFound, family, r.scanErr)
	}
	loc, ok := r.fontMap.FindSystemFont(family + variantSuffix[v])
	if !ok && v != Regular {
		loc, ok = r.fontMap.FindSystemFont(family)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFontNotFound, family)
	}
	data, err := os.ReadFile(loc.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrFontNotFound, family, err)
	}
	log().Debug("text: resolved host font", "family", family, "variant", v.String(), "file", loc.File)
	return parseFont(family, v, data, int(loc.Index))
}

func (r *Registry) scan() {
	dir := r.cacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = base + string(os.PathSeparator) + "sketch-fonts"
	}
	fm := fontscan.NewFontMap(printfLogger{})
	if err := fm.UseSystemFonts(dir); err != nil {
		r.scanErr = err
		return
	}
	r.fontMap = fm
}

// Families lists the built-in families and every family resolved or
// registered so far, sorted.
func (r *Registry) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, f := range BuiltinFamilies() {
		seen[normalize(f)] = true
		out = append(out, f)
	}
	for n, name := range r.names {
		if !seen[n] {
			seen[n] = true
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
