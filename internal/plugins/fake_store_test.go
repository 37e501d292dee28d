package plugins

import (
	"context"
	"sort"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

// memoryRegistry is an in-memory PluginRepository whose InTx restores a snapshot on error.
type memoryRegistry struct {
	points  map[int32]domain.PluginPoint
	plugins map[int32]domain.Plugin
	prefs   map[[2]int32]domain.UserPluginPreference
	nextID  int32
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{
		points:  map[int32]domain.PluginPoint{},
		plugins: map[int32]domain.Plugin{},
		prefs:   map[[2]int32]domain.UserPluginPreference{},
	}
}

func (m *memoryRegistry) InTx(ctx context.Context, fn func(store repository.PluginStore) error) error {
	points := make(map[int32]domain.PluginPoint, len(m.points))
	for k, v := range m.points {
		points[k] = v
	}
	plugins := make(map[int32]domain.Plugin, len(m.plugins))
	for k, v := range m.plugins {
		plugins[k] = v
	}
	nextID := m.nextID

	if err := fn(m); err != nil {
		m.points, m.plugins, m.nextID = points, plugins, nextID
		return err
	}
	return nil
}

func (m *memoryRegistry) ListPoints(ctx context.Context) ([]domain.PluginPoint, error) {
	var out []domain.PluginPoint
	for _, p := range m.points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (m *memoryRegistry) GetPointByID(ctx context.Context, id int32) (*domain.PluginPoint, error) {
	p, ok := m.points[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memoryRegistry) GetPointByLabel(ctx context.Context, label string) (*domain.PluginPoint, error) {
	for _, p := range m.points {
		if p.Label == label {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryRegistry) CreatePoint(ctx context.Context, p *domain.PluginPoint) error {
	m.nextID++
	p.ID = m.nextID
	m.points[p.ID] = *p
	return nil
}

func (m *memoryRegistry) UpdatePoint(ctx context.Context, p *domain.PluginPoint) error {
	if _, ok := m.points[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.points[p.ID] = *p
	return nil
}

func (m *memoryRegistry) DeletePoint(ctx context.Context, id int32) error {
	if _, ok := m.points[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.points, id)
	for pid, pl := range m.plugins {
		if pl.PointID == id {
			delete(m.plugins, pid)
		}
	}
	return nil
}

func (m *memoryRegistry) withPointLabel(pl domain.Plugin) domain.Plugin {
	pl.PointLabel = m.points[pl.PointID].Label
	return pl
}

func (m *memoryRegistry) ListPlugins(ctx context.Context, pointID int32) ([]domain.Plugin, error) {
	var out []domain.Plugin
	for _, pl := range m.plugins {
		if pl.PointID == pointID {
			out = append(out, m.withPointLabel(pl))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func (m *memoryRegistry) ListAllPlugins(ctx context.Context) ([]domain.Plugin, error) {
	var out []domain.Plugin
	for _, pl := range m.plugins {
		out = append(out, m.withPointLabel(pl))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRegistry) GetPlugin(ctx context.Context, id int32) (*domain.Plugin, error) {
	pl, ok := m.plugins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	pl = m.withPointLabel(pl)
	return &pl, nil
}

func (m *memoryRegistry) CreatePlugin(ctx context.Context, pl *domain.Plugin) error {
	m.nextID++
	pl.ID = m.nextID
	m.plugins[pl.ID] = *pl
	return nil
}

func (m *memoryRegistry) UpdatePlugin(ctx context.Context, pl *domain.Plugin) error {
	if _, ok := m.plugins[pl.ID]; !ok {
		return repository.ErrNotFound
	}
	m.plugins[pl.ID] = *pl
	return nil
}

func (m *memoryRegistry) DeletePlugin(ctx context.Context, id int32) error {
	if _, ok := m.plugins[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.plugins, id)
	return nil
}

func (m *memoryRegistry) UpsertPreference(ctx context.Context, pref *domain.UserPluginPreference) error {
	m.prefs[[2]int32{pref.UserID, pref.PluginID}] = *pref
	return nil
}

func (m *memoryRegistry) ListPreferences(ctx context.Context, userID, pointID int32) ([]domain.UserPluginPreference, error) {
	var out []domain.UserPluginPreference
	for k, v := range m.prefs {
		if k[0] == userID && m.plugins[k[1]].PointID == pointID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memoryRegistry) pointByLabel(label string) domain.PluginPoint {
	p, _ := m.GetPointByLabel(context.Background(), label)
	if p == nil {
		return domain.PluginPoint{}
	}
	return *p
}

func (m *memoryRegistry) pluginByKey(point, label string) (domain.Plugin, bool) {
	for _, pl := range m.plugins {
		pl = m.withPointLabel(pl)
		if pl.PointLabel == point && pl.Label == label {
			return pl, true
		}
	}
	return domain.Plugin{}, false
}
