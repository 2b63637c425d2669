package encryption

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/modelseal/internal/config"
	"github.com/idelchi/modelseal/internal/fileutil"
)

// ErrOutputConflict is returned when two inputs, or an input and its output, share a path.
var ErrOutputConflict = errors.New("conflicting output path")

// Processor handles the encryption, decryption and verification of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// codec seals and opens blobs under the derived key
	codec *Codec

	// logger receives diagnostics
	logger *zap.SugaredLogger

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor derives the key from the configured passphrase and prepares a shared Codec.
func NewProcessor(cfg *config.Config, logger *zap.SugaredLogger) (*Processor, error) {
	passphrase, err := cfg.Passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}

	codec, err := NewCodec(DeriveKey(passphrase))
	if err != nil {
		return nil, fmt.Errorf("creating codec: %w", err)
	}

	return &Processor{
		cfg:     cfg,
		codec:   codec,
		logger:  logger,
		results: make(chan Result, len(cfg.Files)),
	}, nil
}

// Plan returns the input to output mapping for all configured files.
// Verification writes nothing, so its outputs are empty.
func (p *Processor) Plan() (map[string]string, error) {
	plan := make(map[string]string, len(p.cfg.Files))
	owners := make(map[string]string, len(p.cfg.Files))

	for _, file := range p.cfg.Files {
		out := p.OutputPath(file)
		plan[file] = out

		if out == "" {
			continue
		}

		if filepath.Clean(out) == filepath.Clean(file) {
			return nil, fmt.Errorf("%w: %q would overwrite its input", ErrOutputConflict, file)
		}

		if prev, ok := owners[out]; ok {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrOutputConflict, prev, file, out)
		}

		owners[out] = file
	}

	for out, owner := range owners {
		if _, ok := plan[out]; ok {
			return nil, fmt.Errorf("%w: output of %q is also an input", ErrOutputConflict, owner)
		}
	}

	return plan, nil
}

// OutputPath returns the path the result of processing filename is written to.
func (p *Processor) OutputPath(filename string) string {
	switch p.cfg.Mode {
	case config.ModeEncrypt:
		return SealedPath(filename, p.cfg.Ext)
	case config.ModeDecrypt:
		if p.cfg.Output != "" {
			return p.cfg.Output
		}

		return RestorePath(filename, p.cfg.Ext, p.cfg.RestoreExt)
	default:
		return ""
	}
}

// ProcessFiles concurrently processes all files specified in the configuration.
// Returns the number of successfully processed files, the number of errors and the total output size.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	plan, err := p.Plan()
	if err != nil {
		return 0, 0, 0, err
	}

	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "%s %q: %v\n", color.RedString("Error processing"), result.Input, result.Error)

				continue
			}

			processed++

			totalSize += result.OutputSize

			if !p.cfg.Quiet {
				if result.Output == "" {
					fmt.Printf("%s %q\n", color.GreenString("Verified"), result.Input) //nolint:forbidigo
				} else {
					fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
				}
			}

			if p.cfg.Delete && result.Output != "" {
				if err := os.Remove(result.Input); err != nil {
					p.logger.Warnw("deleting input", "file", result.Input, "error", err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", result.Input) //nolint:forbidigo
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := plan[file]

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile runs the configured mode on a single file.
// Output goes to a temporary file that is renamed onto outPath only on success.
func (p *Processor) processFile(filename, outPath string) (size int64, err error) {
	input, err := fileutil.ReadInput(filename)
	if err != nil {
		return 0, err
	}

	p.logger.Debugw("read input", "file", filename, "bytes", len(input), "mode", p.cfg.Mode)

	var output []byte

	switch p.cfg.Mode {
	case config.ModeVerify:
		if err := p.codec.Verify(input); err != nil {
			return 0, fmt.Errorf("verifying file: %w", err)
		}

		return int64(len(input)), nil
	case config.ModeDecrypt:
		output, err = p.codec.Decode(input)
		if err != nil {
			return 0, fmt.Errorf("decryption failed: %w", err)
		}
	case config.ModeEncrypt:
		output, err = p.codec.Encode(input)
		if err != nil {
			return 0, fmt.Errorf("encrypting file: %w", err)
		}
	default:
		return 0, fmt.Errorf("unknown mode %q", p.cfg.Mode)
	}

	tc, err := fileutil.NewTempContext(filename, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	if err = tc.Commit(output, outPath); err != nil {
		return 0, err
	}

	size, err = fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, tc.SrcInfo.ModTime())
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	p.logger.Debugw("wrote output", "file", outPath, "bytes", size)

	return size, nil
}
