package service

import (
	"context"
	"sort"

	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/plugins"
	"pinax-social-backend/internal/repository"
)

type pluginService struct {
	repo   repository.PluginRepository
	syncer *plugins.Syncer
	cfg    config.PluginsConfig
}

func NewPluginService(repo repository.PluginRepository, syncer *plugins.Syncer, cfg config.PluginsConfig) PluginService {
	return &pluginService{repo: repo, syncer: syncer, cfg: cfg}
}

func checkToggle(status domain.PluginStatus) error {
	if status != domain.PluginStatusEnabled && status != domain.PluginStatusDisabled {
		return invalidf("status must be %s or %s", domain.PluginStatusEnabled, domain.PluginStatusDisabled)
	}
	return nil
}

func (s *pluginService) ListPoints(ctx context.Context) ([]domain.PluginPoint, error) {
	return s.repo.ListPoints(ctx)
}

func (s *pluginService) ListPlugins(ctx context.Context, pointLabel string) ([]domain.Plugin, error) {
	if pointLabel == "" {
		return s.repo.ListAllPlugins(ctx)
	}
	point, err := s.repo.GetPointByLabel(ctx, pointLabel)
	if err != nil {
		return nil, notFound(err, "plugin point")
	}
	return s.repo.ListPlugins(ctx, point.ID)
}

func (s *pluginService) SetPointStatus(ctx context.Context, pointLabel string, status domain.PluginStatus) (*domain.PluginPoint, error) {
	if err := checkToggle(status); err != nil {
		return nil, err
	}
	point, err := s.repo.GetPointByLabel(ctx, pointLabel)
	if err != nil {
		return nil, notFound(err, "plugin point")
	}
	if point.Status == domain.PluginStatusRemoved {
		return nil, ErrPluginRemoved
	}
	if point.Status != status {
		point.Status = status
		if err := s.repo.UpdatePoint(ctx, point); err != nil {
			return nil, err
		}
		logger.Info("Plugin point status changed", "point", point.Label, "status", status)
	}
	return point, nil
}

func (s *pluginService) SetPluginStatus(ctx context.Context, pluginID int32, status domain.PluginStatus) (*domain.Plugin, error) {
	if err := checkToggle(status); err != nil {
		return nil, err
	}
	plugin, err := s.repo.GetPlugin(ctx, pluginID)
	if err != nil {
		return nil, notFound(err, "plugin")
	}
	if plugin.Status == domain.PluginStatusRemoved {
		return nil, ErrPluginRemoved
	}
	if plugin.Status != status {
		plugin.Status = status
		if err := s.repo.UpdatePlugin(ctx, plugin); err != nil {
			return nil, err
		}
		logger.Info("Plugin status changed", "plugin", plugin.Label, "point", plugin.PointLabel, "status", status)
	}
	return plugin, nil
}

func (s *pluginService) SetUserPreference(ctx context.Context, userID, pluginID int32, visible bool, index int32) error {
	plugin, err := s.repo.GetPlugin(ctx, pluginID)
	if err != nil {
		return notFound(err, "plugin")
	}
	if !visible && plugin.Required {
		return ErrRequiredPlugin
	}
	return s.repo.UpsertPreference(ctx, &domain.UserPluginPreference{
		UserID:   userID,
		PluginID: plugin.ID,
		Visible:  visible,
		Index:    index,
	})
}

// ResolvePoint lists the plugins userID sees at a point. Plugins without a user
// preference sort by their own index.
func (s *pluginService) ResolvePoint(ctx context.Context, userID int32, pointLabel string) ([]domain.Plugin, error) {
	point, err := s.repo.GetPointByLabel(ctx, pointLabel)
	if err != nil {
		return nil, notFound(err, "plugin point")
	}
	if point.Status != domain.PluginStatusEnabled {
		return []domain.Plugin{}, nil
	}

	all, err := s.repo.ListPlugins(ctx, point.ID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.repo.ListPreferences(ctx, userID, point.ID)
	if err != nil {
		return nil, err
	}
	byPlugin := make(map[int32]domain.UserPluginPreference, len(prefs))
	for _, p := range prefs {
		byPlugin[p.PluginID] = p
	}

	userIndex := make(map[int32]int32, len(all))
	out := make([]domain.Plugin, 0, len(all))
	for _, plugin := range all {
		if plugin.Status != domain.PluginStatusEnabled {
			continue
		}
		idx := plugin.Index
		if pref, ok := byPlugin[plugin.ID]; ok {
			if !pref.Visible && !plugin.Required {
				continue
			}
			idx = pref.Index
		}
		userIndex[plugin.ID] = idx
		out = append(out, plugin)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if userIndex[a.ID] != userIndex[b.ID] {
			return userIndex[a.ID] < userIndex[b.ID]
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Label < b.Label
	})
	return out, nil
}

func (s *pluginService) Sync(ctx context.Context, opts plugins.Options) (*plugins.Report, error) {
	return s.syncer.Run(ctx, s.cfg, opts)
}
