package plugins

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
)

var errDryRun = errors.New("dry run")

type Options struct {
	// Delete removes undeclared rows instead of marking them REMOVED.
	Delete bool
	// DryRun computes the report and rolls the transaction back.
	DryRun bool
}

// Changes lists labels per transition
type Changes struct {
	Created   []string `json:"created"`
	Reenabled []string `json:"reenabled"`
	Updated   []string `json:"updated"`
	Removed   []string `json:"removed"`
	Deleted   []string `json:"deleted"`
	Unchanged []string `json:"unchanged"`
}

func (c Changes) changed() bool {
	return len(c.Created)+len(c.Reenabled)+len(c.Updated)+len(c.Removed)+len(c.Deleted) > 0
}

type Report struct {
	Points  Changes `json:"points"`
	Plugins Changes `json:"plugins"`
	DryRun  bool    `json:"dry_run"`
	// DiscoveryErrors holds non-fatal discovery problems, if discovery ran.
	DiscoveryErrors error `json:"-"`
}

// HasChanges reports whether the sync modified (or would modify) the registry
func (r *Report) HasChanges() bool {
	return r.Points.changed() || r.Plugins.changed()
}

func (r *Report) String() string {
	return fmt.Sprintf("points: %d created, %d reenabled, %d updated, %d removed, %d deleted, %d unchanged; "+
		"plugins: %d created, %d reenabled, %d updated, %d removed, %d deleted, %d unchanged",
		len(r.Points.Created), len(r.Points.Reenabled), len(r.Points.Updated), len(r.Points.Removed), len(r.Points.Deleted), len(r.Points.Unchanged),
		len(r.Plugins.Created), len(r.Plugins.Reenabled), len(r.Plugins.Updated), len(r.Plugins.Removed), len(r.Plugins.Deleted), len(r.Plugins.Unchanged))
}

// Syncer reconciles declared points and plugins with the registry. Concurrent calls
// are serialized.
type Syncer struct {
	repo repository.PluginRepository
	mu   sync.Mutex
}

func NewSyncer(repo repository.PluginRepository) *Syncer {
	return &Syncer{repo: repo}
}

// Run discovers manifests under the configured directory and syncs the result
func (s *Syncer) Run(ctx context.Context, cfg config.PluginsConfig, opts Options) (*Report, error) {
	declared, err := Discover(cfg.ManifestDir, cfg.TemplateDirs)
	if err != nil {
		return nil, err
	}
	if declared.Problems != nil {
		logger.Warn("Plugin discovery reported problems", "error", declared.Problems)
	}

	report, err := s.Sync(ctx, declared, opts)
	if err != nil {
		return nil, err
	}
	report.DiscoveryErrors = declared.Problems
	return report, nil
}

// Sync applies declared to the registry in one transaction
func (s *Syncer) Sync(ctx context.Context, declared *Declared, opts Options) (*Report, error) {
	logger.EnterMethod("Syncer.Sync", "points", len(declared.Points), "plugins", len(declared.Plugins), "delete", opts.Delete, "dry_run", opts.DryRun)

	s.mu.Lock()
	defer s.mu.Unlock()

	report := &Report{DryRun: opts.DryRun}
	err := s.repo.InTx(ctx, func(store repository.PluginStore) error {
		points, err := syncPoints(ctx, store, declared.Points, opts, report)
		if err != nil {
			return err
		}
		if err := syncPlugins(ctx, store, points, declared.Plugins, opts, report); err != nil {
			return err
		}
		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		logger.ExitMethodWithError("Syncer.Sync", err)
		return nil, fmt.Errorf("failed to sync plugins: %w", err)
	}

	logger.ExitMethod("Syncer.Sync", "report", report.String())
	return report, nil
}

// syncPoints returns the surviving points keyed by label.
func syncPoints(ctx context.Context, store repository.PluginStore, declared []DeclaredPoint, opts Options, report *Report) (map[string]*domain.PluginPoint, error) {
	existing, err := store.ListPoints(ctx)
	if err != nil {
		return nil, err
	}
	byLabel := make(map[string]*domain.PluginPoint, len(existing))
	for i := range existing {
		byLabel[existing[i].Label] = &existing[i]
	}

	wanted := make(map[string]bool, len(declared))
	for _, d := range declared {
		wanted[d.Label] = true

		p, ok := byLabel[d.Label]
		if !ok {
			p = &domain.PluginPoint{
				Label:      d.Label,
				App:        d.App,
				Index:      d.Index,
				Registered: true,
				Status:     domain.PluginStatusEnabled,
			}
			if err := store.CreatePoint(ctx, p); err != nil {
				return nil, err
			}
			byLabel[d.Label] = p
			report.Points.Created = append(report.Points.Created, d.Label)
			continue
		}

		reenabled := false
		changed := false
		if p.Status == domain.PluginStatusRemoved {
			p.Status = domain.PluginStatusEnabled
			reenabled = true
		}
		if !p.Registered {
			p.Registered = true
			changed = true
		}
		if p.App != d.App || p.Index != d.Index {
			p.App = d.App
			p.Index = d.Index
			changed = true
		}
		if !reenabled && !changed {
			report.Points.Unchanged = append(report.Points.Unchanged, d.Label)
			continue
		}
		if err := store.UpdatePoint(ctx, p); err != nil {
			return nil, err
		}
		if reenabled {
			report.Points.Reenabled = append(report.Points.Reenabled, d.Label)
		} else {
			report.Points.Updated = append(report.Points.Updated, d.Label)
		}
	}

	for _, label := range sortedKeys(byLabel) {
		if wanted[label] {
			continue
		}
		p := byLabel[label]
		if opts.Delete {
			// plugins go with the point; report them before the cascade hides them
			owned, err := store.ListPlugins(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			if err := store.DeletePoint(ctx, p.ID); err != nil {
				return nil, err
			}
			for _, pl := range owned {
				report.Plugins.Deleted = append(report.Plugins.Deleted, pluginKey(label, pl.Label))
			}
			report.Points.Deleted = append(report.Points.Deleted, label)
			delete(byLabel, label)
			continue
		}
		if p.Status == domain.PluginStatusRemoved && !p.Registered {
			report.Points.Unchanged = append(report.Points.Unchanged, label)
			continue
		}
		p.Status = domain.PluginStatusRemoved
		p.Registered = false
		if err := store.UpdatePoint(ctx, p); err != nil {
			return nil, err
		}
		report.Points.Removed = append(report.Points.Removed, label)
	}
	return byLabel, nil
}

func syncPlugins(ctx context.Context, store repository.PluginStore, points map[string]*domain.PluginPoint, declared []DeclaredPlugin, opts Options, report *Report) error {
	existing, err := store.ListAllPlugins(ctx)
	if err != nil {
		return err
	}
	byKey := make(map[string]*domain.Plugin, len(existing))
	for i := range existing {
		byKey[pluginKey(existing[i].PointLabel, existing[i].Label)] = &existing[i]
	}

	wanted := make(map[string]bool, len(declared))
	for _, d := range declared {
		key := d.Key()
		point, ok := points[d.Point]
		if !ok || point.Status == domain.PluginStatusRemoved {
			// left out of wanted so the removal pass below retires it with its point
			logger.Debug("Skipping plugin of undeclared point", "plugin", key)
			continue
		}
		wanted[key] = true

		p, ok := byKey[key]
		if !ok {
			p = &domain.Plugin{
				PointID:    point.ID,
				PointLabel: point.Label,
				Label:      d.Label,
				App:        d.App,
				Template:   d.Template,
				Index:      d.Index,
				Required:   d.Required,
				Registered: true,
				Status:     domain.PluginStatusEnabled,
			}
			if err := store.CreatePlugin(ctx, p); err != nil {
				return err
			}
			report.Plugins.Created = append(report.Plugins.Created, key)
			continue
		}

		reenabled := false
		changed := false
		if p.Status == domain.PluginStatusRemoved {
			p.Status = domain.PluginStatusEnabled
			reenabled = true
		}
		if !p.Registered {
			p.Registered = true
			changed = true
		}
		if p.App != d.App || p.Template != d.Template || p.Index != d.Index || p.Required != d.Required {
			p.App = d.App
			p.Template = d.Template
			p.Index = d.Index
			p.Required = d.Required
			changed = true
		}
		if !reenabled && !changed {
			report.Plugins.Unchanged = append(report.Plugins.Unchanged, key)
			continue
		}
		if err := store.UpdatePlugin(ctx, p); err != nil {
			return err
		}
		if reenabled {
			report.Plugins.Reenabled = append(report.Plugins.Reenabled, key)
		} else {
			report.Plugins.Updated = append(report.Plugins.Updated, key)
		}
	}

	for _, key := range sortedKeys(byKey) {
		if wanted[key] {
			continue
		}
		p := byKey[key]
		if opts.Delete {
			if err := store.DeletePlugin(ctx, p.ID); err != nil {
				return err
			}
			report.Plugins.Deleted = append(report.Plugins.Deleted, key)
			continue
		}
		if p.Status == domain.PluginStatusRemoved && !p.Registered {
			report.Plugins.Unchanged = append(report.Plugins.Unchanged, key)
			continue
		}
		p.Status = domain.PluginStatusRemoved
		p.Registered = false
		if err := store.UpdatePlugin(ctx, p); err != nil {
			return err
		}
		report.Plugins.Removed = append(report.Plugins.Removed, key)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
