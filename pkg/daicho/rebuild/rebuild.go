// Package rebuild regenerates the combined interchange file from the raw
// ledger sources. Each source is classified by an external process; the
// two interchange files are then merged into one table source. The whole
// run is synchronous; any failure aborts before the combined file is
// replaced.
package rebuild

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cognicore/daicho/pkg/daicho/interchange"
	"github.com/cognicore/daicho/pkg/daicho/internalerr"
)

// Runner invokes the external row classifier.
type Runner struct {
	// Classifier is the argv prefix of the classifier command, e.g.
	// {"daicho-classify"}. Input, output and encoding flags are appended.
	Classifier []string
	// Encoding is the source character encoding passed through to the
	// classifier. Empty means the classifier's default (cp932).
	Encoding string
}

// CheckSources verifies every source path exists, aggregating all
// missing paths into a single error before any process is invoked.
func CheckSources(paths ...string) error {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrMissingSource, strings.Join(missing, ", "))
	}
	return nil
}

// Classify runs the external classifier on one source file, writing the
// interchange file to dest. A non-zero exit becomes an error carrying
// the process's stderr, or its stdout, or the exit code, in that order.
func (r *Runner) Classify(ctx context.Context, src, dest string) error {
	if len(r.Classifier) == 0 {
		return fmt.Errorf("%w: no classifier command configured", internalerr.ErrInvalidConfig)
	}

	args := append([]string{}, r.Classifier[1:]...)
	args = append(args, "-input", src, "-output", dest)
	if r.Encoding != "" {
		args = append(args, "-encoding", r.Encoding)
	}

	cmd := exec.CommandContext(ctx, r.Classifier[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s: %s", internalerr.ErrClassifierFailed, filepath.Base(src), msg)
	}
	return nil
}

// Regenerate classifies the purchase and sales ledgers into a temporary
// directory and merges the results into outPath. The combined file is
// only replaced after both classifications succeed.
func (r *Runner) Regenerate(ctx context.Context, purchaseSrc, salesSrc, outPath string) error {
	if err := CheckSources(purchaseSrc, salesSrc); err != nil {
		return err
	}

	tmpdir, err := os.MkdirTemp("", "daicho-rebuild-")
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	defer os.RemoveAll(tmpdir)

	purchaseTmp := filepath.Join(tmpdir, "purchase.tsv")
	salesTmp := filepath.Join(tmpdir, "sales.tsv")

	if err := r.Classify(ctx, purchaseSrc, purchaseTmp); err != nil {
		return err
	}
	if err := r.Classify(ctx, salesSrc, salesTmp); err != nil {
		return err
	}

	return interchange.Merge(outPath, purchaseTmp, salesTmp)
}
