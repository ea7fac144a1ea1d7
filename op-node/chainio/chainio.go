// Package chainio stores L1 and L2 chains as JSON files.
package chainio

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

// ErrNullBlock is returned when a chain file holds a null entry.
var ErrNullBlock = errors.New("null block in chain file")

// ReadChain reads a chain stored as a JSON array of blocks.
func ReadChain(path string) ([]*eth.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read chain file %s", path)
	}
	var chain []*eth.Block
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, errors.Wrapf(err, "failed to decode chain file %s", path)
	}
	for i, b := range chain {
		if b == nil {
			return nil, errors.Wrapf(ErrNullBlock, "%s position %d", path, i)
		}
	}
	return chain, nil
}

// WriteChain stores the chain as a JSON array of blocks. The file is replaced atomically, so a
// concurrent reader or watcher never sees a partial chain.
func WriteChain(path string, chain []*eth.Block) error {
	if chain == nil {
		chain = []*eth.Block{}
	}
	data, err := json.MarshalIndent(chain, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode chain")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary chain file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write chain file %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close chain file %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to move chain file into place at %s", path)
	}
	return nil
}

// Watch reads the chain file once, then again every time it changes, and hands each version to
// fn. It returns when the context is done, when fn fails, or when the watcher breaks.
// Versions that fail to decode are logged and skipped.
func Watch(ctx context.Context, log log.Logger, path string, fn func(chain []*eth.Block) error) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()
	// watch the directory: atomic replacement swaps out the inode of the file itself
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(path))
	}

	load := func() error {
		chain, err := ReadChain(path)
		if err != nil {
			log.Warn("skipping unreadable chain file", "path", path, "err", err)
			return nil
		}
		log.Debug("loaded chain file", "path", path, "blocks", len(chain))
		return fn(chain)
	}
	if err := load(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := load(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			return errors.Wrap(err, "file watcher failed")
		}
	}
}
