package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pints-nts/pints/internal/core"
)

// propertyLevels are the entity levels properties may attach to.
var propertyLevels = map[string]bool{
	"feature":         true,
	"component_intra": true,
	"run":             true,
}

func validateLevel(level string) error {
	if !propertyLevels[level] {
		return fmt.Errorf("invalid --level %q (feature, component_intra, or run)", level)
	}
	return nil
}

func newSetPropCmd() *cobra.Command {
	var level, id, key, valueText, unit, uri string
	var value float64
	cmd := &cobra.Command{
		Use:   "set-prop",
		Short: "Set an algorithm-specific property on an entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLevel(level); err != nil {
				return err
			}
			prop := &core.AlgoProperty{
				Level:       level,
				EntityID:    id,
				PropKey:     key,
				ValueText:   optional(valueText),
				UnitCode:    optional(unit),
				OntologyURI: optional(uri),
			}
			if cmd.Flags().Changed("value") {
				prop.PropValue = &value
			}
			if err := core.NewService(store()).SetProperty(prop); err != nil {
				return err
			}
			fmt.Printf("Set property %q on %s:%s\n", key, level, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "Entity level: feature, component_intra, or run")
	cmd.Flags().StringVar(&id, "id", "", "Entity ID")
	cmd.Flags().StringVar(&key, "key", "", "Property key, e.g. dqs, snr")
	cmd.Flags().Float64Var(&value, "value", 0, "Numeric value")
	cmd.Flags().StringVar(&valueText, "value-text", "", "Text value")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit code")
	cmd.Flags().StringVar(&uri, "uri", "", "Ontology URI")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newGetPropsCmd() *cobra.Command {
	var level, id string
	cmd := &cobra.Command{
		Use:   "get-props",
		Short: "Fetch algorithm-specific properties for an entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLevel(level); err != nil {
				return err
			}
			props, err := core.NewService(store()).Properties(level, id)
			if err != nil {
				return err
			}
			if len(props) == 0 {
				fmt.Println("(no properties)")
				return nil
			}
			rows := make([][]string, len(props))
			for i, p := range props {
				rows[i] = []string{
					p.PropKey,
					derefFloat(p.PropValue),
					deref(p.ValueText),
					deref(p.UnitCode),
					deref(p.OntologyURI),
				}
			}
			printTable([]string{"prop_key", "prop_value", "value_text", "unit_code", "ontology_uri"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "Entity level: feature, component_intra, or run")
	cmd.Flags().StringVar(&id, "id", "", "Entity ID")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%g", *f)
}
