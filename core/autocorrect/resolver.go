package autocorrect

import (
	"log"

	"github.com/josephlewis42/shellcraft/core/config"
	"github.com/josephlewis42/shellcraft/core/shell"
)

// Resolver corrects command names before they're run and learns the names of
// programs that start successfully.
type Resolver struct {
	// Aliases are applied before any correction, even when Autocorrect is off.
	Aliases map[string]string
	// Autocorrect enables typo and learned-command correction.
	Autocorrect bool
	// Extra names are treated as known commands.
	Extra []string
	Store *Store
}

var _ shell.CommandResolver = (*Resolver)(nil)

// NewResolver creates a Resolver configured by cfg with its learned store
// loaded from the configuration directory.
func NewResolver(cfg *config.Configuration) (*Resolver, error) {
	store := NewStore(cfg.Fs(), config.LearnedName)
	if err := store.Load(); err != nil {
		return nil, err
	}

	return &Resolver{
		Aliases:     cfg.Aliases,
		Autocorrect: cfg.Autocorrect,
		Extra:       cfg.ExtraCommands,
		Store:       store,
	}, nil
}

// Resolve maps a typed command name to the one that should run.
func (r *Resolver) Resolve(name string) string {
	if alias, ok := r.Aliases[name]; ok {
		return alias
	}

	if !r.Autocorrect {
		return name
	}

	if cmd, ok := CorrectTypo(name); ok {
		return cmd
	}

	if r.Store != nil {
		if cmd, ok := r.Store.Lookup(name); ok {
			return cmd
		}
	}

	return name
}

// Record learns name if it isn't already a known command. Failures are
// logged.
func (r *Resolver) Record(name string) {
	if r.Store == nil || isCommon(name) {
		return
	}

	if !r.Store.Add(name) {
		return
	}

	if err := r.Store.Save(); err != nil {
		log.Printf("saving learned command %q: %v", name, err)
	}
}

// KnownCommands lists the common, extra and learned command names without
// duplicates.
func (r *Resolver) KnownCommands() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(names []string) {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}

	add(CommonCommands)
	add(r.Extra)
	if r.Store != nil {
		add(r.Store.Commands())
	}
	return out
}
