package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"semnet/application/ports"
	"semnet/application/services"
	domainconfig "semnet/domain/config"
	"semnet/domain/preset"
	domainservices "semnet/domain/services"
	"semnet/infrastructure/persistence/filesystem"
	pkgerrors "semnet/pkg/errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	writeBack bool
	passes    int

	inferCmd = &cobra.Command{
		Use:   "infer <preset.json>",
		Short: "Run inference over a preset file",
		Long: `Loads a preset file, runs one or more inference passes and prints the
relations created and the conflicts found. With --write the result is saved
back to the same file.`,
		Args: cobra.ExactArgs(1),
		RunE: runInfer,
	}
)

func init() {
	inferCmd.Flags().BoolVarP(&writeBack, "write", "w", false, "save the result back to the preset file")
	inferCmd.Flags().IntVarP(&passes, "passes", "n", 1, "number of inference passes; each pass follows one more is-a hop")
}

// fileSession is a graph service bound to the directory of one preset file
type fileSession struct {
	service  *services.GraphService
	repo     ports.PresetRepository
	filename string
	doc      *preset.Document
}

func openFile(cmd *cobra.Command, path string) (*fileSession, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newCLILogger(cfg)
	if err != nil {
		return nil, err
	}

	repo, err := filesystem.NewPresetRepository(filepath.Dir(path), logger)
	if err != nil {
		return nil, err
	}

	return newFileSession(cmd.Context(), cfg.DomainConfig(), repo, filepath.Base(path), logger)
}

// newFileSession reads the preset once and seeds the service from that same document
func newFileSession(ctx context.Context, domainConfig *domainconfig.DomainConfig, repo ports.PresetRepository, filename string, logger *zap.Logger) (*fileSession, error) {
	doc, err := repo.Load(ctx, filename)
	if err != nil {
		return nil, err
	}

	graph, err := preset.BuildGraph(doc, domainConfig)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "preset %s", filename)
	}

	service := services.NewGraphService(domainConfig, repo, nil, nil, logger)
	service.Replace(ctx, graph, doc, filename)

	return &fileSession{service: service, repo: repo, filename: filename, doc: doc}, nil
}

func runInfer(cmd *cobra.Command, args []string) error {
	if passes < 1 {
		return fmt.Errorf("--passes must be at least 1")
	}

	session, err := openFile(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := services.InferenceResult{
		NewRelations: []domainservices.InferredRelation{},
		Conflicts:    []domainservices.Conflict{},
	}
	for i := 0; i < passes; i++ {
		result := session.service.RunInference(cmd.Context())
		total.NewRelations = append(total.NewRelations, result.NewRelations...)
		total.Conflicts = append(total.Conflicts, result.Conflicts...)
		if len(result.NewRelations) == 0 {
			break
		}
	}

	if jsonOutput {
		if err := writeJSON(out, total); err != nil {
			return err
		}
	} else {
		printInference(out, total)
	}

	if !writeBack {
		return nil
	}

	doc := preset.FromSnapshot(session.service.Snapshot(), session.doc.Meta.Name, session.doc.Meta.Thumbnail, session.doc.Settings.Palette)
	if err := session.repo.Save(cmd.Context(), session.filename, doc); err != nil {
		return err
	}
	if !jsonOutput {
		fmt.Fprintf(out, "saved %s\n", args[0])
	}
	return nil
}

func printInference(out io.Writer, result services.InferenceResult) {
	fmt.Fprintf(out, "%d new relations, %d conflicts\n", len(result.NewRelations), len(result.Conflicts))
	for _, rel := range result.NewRelations {
		fmt.Fprintf(out, "  + %s -%s-> %s\n", rel.Source, rel.Relation, rel.Target)
	}
	for _, c := range result.Conflicts {
		fmt.Fprintf(out, "  ! %s -> %s: has %q, would infer %q\n", c.Child, c.Target, c.ExistingRelation, c.InferredRelation)
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
