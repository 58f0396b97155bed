package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := generateDocs()
			if err != nil {
				return err
			}
			return writeDocs(cmd.OutOrStdout(), cmd.ErrOrStderr(), outputFile, markdown)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

type docSection struct {
	name  string
	tools []registry.Info
}

// generateDocs registers every tool group into its own registry (no ZBD
// client is needed for that) and renders the result.
func generateDocs() (string, error) {
	sc := server.NewServerContext(context.Background(), nil)
	defer func() {
		_ = sc.Shutdown()
	}()

	sections := make([]docSection, 0, len(toolGroups))
	for _, g := range toolGroups {
		b := registry.NewBuilder()
		if err := g.register(b, sc, false); err != nil {
			return "", fmt.Errorf("failed to register %s tools: %w", g.name, err)
		}
		sections = append(sections, docSection{name: g.name, tools: b.Build().List()})
	}
	return generateToolsMarkdown(sections), nil
}

func writeDocs(stdout, stderr io.Writer, outputFile, markdown string) error {
	if outputFile == "" {
		_, err := io.WriteString(stdout, markdown)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

func generateToolsMarkdown(sections []docSection) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running zbd-mcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")
	sb.WriteString("Amounts are strings in millisatoshis. Tools marked *read-only* are the only ones registered with `--read-only`.\n\n")

	// Table of contents
	sb.WriteString("## Table of Contents\n\n")
	for _, s := range sections {
		fmt.Fprintf(&sb, "- [%s Tools](#%s)\n", s.name, anchor(s.name+" Tools"))
	}
	sb.WriteString("\n")

	for _, s := range sections {
		fmt.Fprintf(&sb, "## %s Tools\n\n", s.name)
		for _, tool := range s.tools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func generateToolMarkdown(tool registry.Info) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		sb.WriteString(tool.Description)
		if tool.ReadOnly {
			sb.WriteString(" *(read-only)*")
		}
		sb.WriteString("\n\n")
	}

	if len(tool.Schema.Fields) > 0 {
		sb.WriteString("**Arguments:**\n")
		writeFields(&sb, tool.Schema.Fields, "")
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeFields(sb *strings.Builder, fields []schema.Field, indent string) {
	for _, f := range fields {
		requiredStr := "optional"
		if f.Required {
			requiredStr = "required"
		}

		fmt.Fprintf(sb, "%s- `%s` (%s, %s): ", indent, f.Name, f.Kind, requiredStr)
		if f.Description != "" {
			sb.WriteString(f.Description)
		} else {
			fmt.Fprintf(sb, "%s parameter", f.Kind)
		}
		sb.WriteString("\n")

		if f.Items != nil {
			writeFields(sb, f.Items.Fields, indent+"  ")
		}
		if f.Properties != nil {
			writeFields(sb, f.Properties.Fields, indent+"  ")
		}
	}
}

func anchor(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}
