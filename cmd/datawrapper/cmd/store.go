package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.etcd.io/bbolt"

	"github.com/jmcleod/datawrapper/crypto"
	"github.com/jmcleod/datawrapper/datawrapper"
	"github.com/jmcleod/datawrapper/internal/util"
	"github.com/jmcleod/datawrapper/storage"
	bboltstorage "github.com/jmcleod/datawrapper/storage/bbolt"
)

var errWrongPassphrase = errors.New("wrong passphrase")

// store is what every subcommand works against once configuration has
// been resolved and the database opened.
type store struct {
	cfg  *config
	repo storage.Repository
	log  *slog.Logger
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func withStore(cmd *cobra.Command, fn func(s *store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

	if err := os.MkdirAll(filepath.Dir(cfg.DB), 0o700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	repo, err := bboltstorage.NewRepositoryFromFile(cfg.DB, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to open record storage: %w", err)
	}
	defer repo.Close()
	log.Debug("opened record database", slog.String("path", cfg.DB), slog.String("namespace", cfg.Namespace))

	return fn(&store{cfg: cfg, repo: repo, log: log})
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrNamespaceNotFound)
}

// withMasterKey derives the master key for one record and wipes it once
// fn returns.
func (s *store) withMasterKey(passphrase string, salt []byte, params crypto.Argon2idParams, fn func(master []byte) error) error {
	start := time.Now()
	master, err := crypto.DeriveKey(passphrase, salt, params)
	if err != nil {
		return err
	}
	defer util.WipeBytes(master)
	s.log.Debug("derived master key", slog.Duration("elapsed", time.Since(start)), slog.Uint64("memory_kib", uint64(params.MemoryKiB)))
	return fn(master)
}

func (s *store) nextVersion(name string, force bool) (expected, next uint64, err error) {
	existing, err := s.repo.Get(s.cfg.Namespace, name)
	switch {
	case isNotFound(err):
		return 0, 1, nil
	case err != nil:
		return 0, 0, fmt.Errorf("reading %s: %w", name, err)
	case !force:
		return 0, 0, fmt.Errorf("%s already exists in namespace %s (use --force to overwrite)", name, s.cfg.Namespace)
	default:
		return existing.Version, existing.Version + 1, nil
	}
}

func (s *store) put(cmd *cobra.Command, name string, force, plain bool) error {
	expected, version, err := s.nextVersion(name, force)
	if err != nil {
		return err
	}

	var (
		rec *storage.Record
		w   *datawrapper.Wrapper
	)
	if plain {
		w, err = readSecret(cmd, s.cfg.MaxSecretSize, datawrapper.WithCoders(datawrapper.Identity()))
		if err != nil {
			return err
		}
		defer w.Destroy()
		if rec, err = storage.SealRecord(w, storage.SchemeIdentity, version); err != nil {
			return err
		}
	} else {
		params, err := crypto.Argon2idProfile(s.cfg.KDFProfile)
		if err != nil {
			return err
		}
		passphrase, err := readPassphrase(cmd, true)
		if err != nil {
			return err
		}
		salt, err := crypto.NewSalt()
		if err != nil {
			return err
		}

		var (
			sc    crypto.StreamContext
			check []byte
		)
		err = s.withMasterKey(passphrase, salt, params, func(master []byte) error {
			var err error
			if check, err = crypto.KeyCheck(master, salt); err != nil {
				return err
			}
			key, err := crypto.RecordKey(master, s.cfg.Namespace, name)
			if err != nil {
				return err
			}
			sc, err = crypto.NewStreamContext(key)
			return err
		})
		if err != nil {
			return err
		}
		defer util.WipeBytes(sc.Key)

		w, err = readSecret(cmd, s.cfg.MaxSecretSize, datawrapper.WithInfoCoders(crypto.StreamCoders()), datawrapper.WithInfo(sc))
		if err != nil {
			return err
		}
		defer w.Destroy()

		if rec, err = storage.SealRecord(w, crypto.StreamScheme, version); err != nil {
			return err
		}
		rec.Salt = salt
		rec.KDF = &params
		rec.KeyCheck = check
		rec.Nonce = sc.Nonce
	}

	if err := s.repo.PutCAS(s.cfg.Namespace, name, expected, rec); err != nil {
		if errors.Is(err, storage.ErrCASFailed) {
			return fmt.Errorf("%s changed while it was being written: %w", name, err)
		}
		return fmt.Errorf("writing %s: %w", name, err)
	}
	s.log.Info("stored secret",
		slog.String("namespace", s.cfg.Namespace),
		slog.String("name", name),
		slog.String("scheme", rec.Scheme),
		slog.Uint64("version", version),
		slog.Any("secret", w))
	return nil
}

func (s *store) get(cmd *cobra.Command, name string, asHex bool) error {
	rec, err := s.repo.Get(s.cfg.Namespace, name)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s not found in namespace %s", name, s.cfg.Namespace)
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}

	var (
		w    *datawrapper.Wrapper
		info any
	)
	switch rec.Scheme {
	case storage.SchemeIdentity:
		if w, err = storage.OpenRecord(rec, datawrapper.WithCoders(datawrapper.Identity())); err != nil {
			return err
		}
	case crypto.StreamScheme:
		if rec.KDF == nil {
			return fmt.Errorf("record %s has no key derivation parameters", name)
		}
		passphrase, err := readPassphrase(cmd, false)
		if err != nil {
			return err
		}
		var sc crypto.StreamContext
		err = s.withMasterKey(passphrase, rec.Salt, *rec.KDF, func(master []byte) error {
			ok, err := crypto.VerifyKeyCheck(master, rec.Salt, rec.KeyCheck)
			if err != nil {
				return err
			}
			if !ok {
				return errWrongPassphrase
			}
			key, err := crypto.RecordKey(master, s.cfg.Namespace, name)
			if err != nil {
				return err
			}
			sc = crypto.StreamContext{Key: key, Nonce: rec.Nonce}
			return nil
		})
		if err != nil {
			return err
		}
		defer util.WipeBytes(sc.Key)
		if err := crypto.ValidateStreamContext(sc); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
		if w, err = storage.OpenRecord(rec, datawrapper.WithInfoCoders(crypto.StreamCoders())); err != nil {
			return err
		}
		info = sc
	default:
		return fmt.Errorf("record %s uses unsupported scheme %s", name, rec.Scheme)
	}
	defer w.Destroy()

	s.log.Debug("opened secret", slog.String("name", name), slog.Uint64("version", rec.Version), slog.Any("secret", w))

	out := cmd.OutOrStdout()
	emit := func(data []byte) error { return writeSecret(out, data, asHex) }
	if w.UsesInfo() {
		return w.UseInfo(info, emit)
	}
	return w.Use(emit)
}

func (s *store) list(cmd *cobra.Command) error {
	names, err := s.repo.List(s.cfg.Namespace)
	if err != nil {
		return fmt.Errorf("listing namespace %s: %w", s.cfg.Namespace, err)
	}
	s.log.Debug("listed records", slog.String("namespace", s.cfg.Namespace), slog.Int("count", len(names)))
	out := cmd.OutOrStdout()
	for _, name := range names {
		_, _ = fmt.Fprintln(out, name)
	}
	return nil
}

func (s *store) delete(name string) error {
	if err := s.repo.Delete(s.cfg.Namespace, name); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s not found in namespace %s", name, s.cfg.Namespace)
		}
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	s.log.Info("deleted secret", slog.String("namespace", s.cfg.Namespace), slog.String("name", name))
	return nil
}
