package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/waterdash/internal/filter"
)

// filterFlags binds one repeatable flag per filter field plus --all.
type filterFlags struct {
	values map[filter.Field]*[]string
	all    []string
}

func addFilterFlags(cmd *cobra.Command) *filterFlags {
	ff := &filterFlags{values: make(map[filter.Field]*[]string)}
	for _, f := range filter.Fields() {
		var vals []string
		ff.values[f] = &vals
		name := strings.ReplaceAll(f.Key(), "_", "-")
		cmd.Flags().StringSliceVar(&vals, name, nil, "keep rows whose "+f.Label()+" is one of these values (repeatable, comma separated)")
	}
	cmd.Flags().StringSliceVar(&ff.all, "all", nil, "fields whose Select All box is ticked, e.g. --all year,month")
	return ff
}

func (ff *filterFlags) selections() (filter.Selections, error) {
	vals := make(map[filter.Field][]string, len(ff.values))
	for f, p := range ff.values {
		vals[f] = *p
	}
	return filter.FromFlags(vals, ff.all)
}
