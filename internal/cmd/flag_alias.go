package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const aliasOfAnnotation = "alias-of"

// aliasValue shares the canonical flag's storage and marks it Changed
// whenever the alias is set.
type aliasValue struct {
	pflag.Value
	target *pflag.Flag
}

func (v *aliasValue) Set(s string) error {
	err := v.Value.Set(s)
	if err == nil {
		v.target.Changed = true
	}
	return err
}

// aliasSliceValue keeps pflag's slice behaviour for repeated alias flags.
type aliasSliceValue struct {
	*aliasValue
	pflag.SliceValue
}

// flagAlias adds a hidden flag alias for an existing flag name.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	target := fs.Lookup(name)
	if target == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	shared := &aliasValue{Value: target.Value, target: target}
	var value pflag.Value = shared
	if sv, ok := target.Value.(pflag.SliceValue); ok {
		value = aliasSliceValue{aliasValue: shared, SliceValue: sv}
	}

	annotations := map[string][]string{aliasOfAnnotation: {name}}
	for k, v := range target.Annotations {
		if k != cobra.BashCompOneRequiredFlag {
			annotations[k] = v
		}
	}
	fs.AddFlag(&pflag.Flag{
		Name:        alias,
		Value:       value,
		DefValue:    target.DefValue,
		NoOptDefVal: target.NoOptDefVal,
		Hidden:      true,
		Annotations: annotations,
	})
}

// flagOrAliasChanged reports whether name, or a hidden alias of it, was
// set on the command line.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		if fs.Changed(name) {
			return true
		}
		changed := false
		fs.VisitAll(func(f *pflag.Flag) {
			if ann := f.Annotations[aliasOfAnnotation]; f.Changed && len(ann) > 0 && ann[0] == name {
				changed = true
			}
		})
		if changed {
			return true
		}
	}
	return false
}
