package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/spread"
)

// listCommand creates the list command showing project items and built spreads.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List project items and built spreads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.OutOrStdout())
		},
	}
}

func (c *CLI) runList(w io.Writer) error {
	dir := c.Config.ProjectDir
	project, err := spread.LoadProject(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to load %s", spread.ProjectFile)
	}
	reg, err := spread.LoadRegistry(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to load registry")
	}

	if project == nil {
		fmt.Fprintln(w, StyleDim.Render("No "+spread.ProjectFile+" in "+dir))
	} else {
		fmt.Fprintln(w, StyleTitle.Render(project.Name))
		if len(project.Items) == 0 {
			fmt.Fprintln(w, StyleDim.Render("No items"))
		} else {
			fmt.Fprintln(w, itemsTable(project.Items))
		}
	}

	if len(reg.Spreads) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Built"))
	fmt.Fprintln(w, registryTable(reg))
	return nil
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted))
}

func itemsTable(items []spread.Descriptor) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.Name,
			it.VersionOrDefault(),
			spread.NormalizeType(it.Type),
			fmt.Sprint(len(it.Files)),
			joinOrDash(it.SpreadDependencies.Keys()),
			joinOrDash(it.Dependencies.Keys()),
		})
	}
	return newTable().
		Headers("Name", "Version", "Type", "Files", "Spreads", "Packages").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorOK)
			}
			return lipgloss.NewStyle().Foreground(colorFile)
		}).
		Render()
}

func registryTable(reg *spread.RegistryDocument) string {
	names := make([]string, 0, len(reg.Spreads))
	for name := range reg.Spreads {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		e := reg.Spreads[name]
		rows = append(rows, []string{name, strings.Join(e.Versions, ", "), e.Spread})
	}
	return newTable().
		Headers("Name", "Versions", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorLink)
			}
			return lipgloss.NewStyle().Foreground(colorFile)
		}).
		Render()
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}
