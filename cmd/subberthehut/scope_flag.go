package main

import (
	"strconv"

	"github.com/spf13/pflag"

	"subberthehut/internal/subtitles"
)

// scopeState is shared by the hash-only and name-only flags. Whichever flag
// is parsed last wins; setting one replaces the other.
type scopeState struct {
	current subtitles.Scope
	set     bool
}

type scopeFlag struct {
	state *scopeState
	scope subtitles.Scope
}

func addScopeFlag(fs *pflag.FlagSet, state *scopeState, scope subtitles.Scope, name, shorthand, usage string) {
	flag := fs.VarPF(&scopeFlag{state: state, scope: scope}, name, shorthand, usage)
	flag.NoOptDefVal = "true"
}

func (f *scopeFlag) String() string {
	if f == nil || f.state == nil {
		return "false"
	}
	return strconv.FormatBool(f.state.current == f.scope)
}

func (f *scopeFlag) Set(value string) error {
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	f.state.set = true
	switch {
	case enabled:
		f.state.current = f.scope
	case f.state.current == f.scope:
		f.state.current = subtitles.ScopeBoth
	}
	return nil
}

func (f *scopeFlag) Type() string {
	return "bool"
}
