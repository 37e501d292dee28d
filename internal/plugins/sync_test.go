package plugins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinax-social-backend/internal/domain"
)

func sampleDeclared() *Declared {
	return &Declared{
		Points: []DeclaredPoint{
			{Label: "profile_sidebar", App: "profiles", Index: 1},
			{Label: "tribe_tabs", App: "tribes", Index: 2},
		},
		Plugins: []DeclaredPlugin{
			{Point: "profile_sidebar", Label: "friends", App: "friends", Template: "friends/plugins/profile_sidebar/friends.html", Index: 1},
			{Point: "profile_sidebar", Label: "photos", App: "photos", Template: "photos/plugins/profile_sidebar/photos.html", Index: 2, Required: true},
			{Point: "tribe_tabs", Label: "topics", App: "topics", Template: "topics/plugins/tribe_tabs/topics.html", Index: 1},
		},
	}
}

func TestSync_CreatesThenIdempotent(t *testing.T) {
	ctx := context.Background()
	reg := newMemoryRegistry()
	s := NewSyncer(reg)

	report, err := s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"profile_sidebar", "tribe_tabs"}, report.Points.Created)
	assert.Len(t, report.Plugins.Created, 3)
	assert.True(t, report.HasChanges())

	point := reg.pointByLabel("profile_sidebar")
	assert.Equal(t, domain.PluginStatusEnabled, point.Status)
	assert.True(t, point.Registered)

	report, err = s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)
	assert.False(t, report.HasChanges())
	assert.Len(t, report.Points.Unchanged, 2)
	assert.Len(t, report.Plugins.Unchanged, 3)
}

func TestSync_RemovesAndReenables(t *testing.T) {
	ctx := context.Background()
	reg := newMemoryRegistry()
	s := NewSyncer(reg)

	_, err := s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)

	reduced := sampleDeclared()
	reduced.Points = reduced.Points[:1]
	reduced.Plugins = reduced.Plugins[:2]

	report, err := s.Sync(ctx, reduced, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"tribe_tabs"}, report.Points.Removed)
	assert.Equal(t, []string{"tribe_tabs/topics"}, report.Plugins.Removed)

	removed := reg.pointByLabel("tribe_tabs")
	assert.Equal(t, domain.PluginStatusRemoved, removed.Status)
	assert.False(t, removed.Registered)

	// already removed rows are left alone
	report, err = s.Sync(ctx, reduced, Options{})
	require.NoError(t, err)
	assert.False(t, report.HasChanges())

	report, err = s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"tribe_tabs"}, report.Points.Reenabled)
	assert.Equal(t, []string{"tribe_tabs/topics"}, report.Plugins.Reenabled)
	assert.Equal(t, domain.PluginStatusEnabled, reg.pointByLabel("tribe_tabs").Status)
}

func TestSync_KeepsAdminDisabled(t *testing.T) {
	ctx := context.Background()
	reg := newMemoryRegistry()
	s := NewSyncer(reg)

	_, err := s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)

	p := reg.pointByLabel("profile_sidebar")
	p.Status = domain.PluginStatusDisabled
	require.NoError(t, reg.UpdatePoint(ctx, &p))

	report, err := s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)
	assert.False(t, report.HasChanges())
	assert.Equal(t, domain.PluginStatusDisabled, reg.pointByLabel("profile_sidebar").Status)
}

func TestSync_UpdatesChangedFields(t *testing.T) {
	ctx := context.Background()
	reg := newMemoryRegistry()
	s := NewSyncer(reg)

	_, err := s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)

	changed := sampleDeclared()
	changed.Points[0].Index = 9
	changed.Plugins[0].Template = "custom/friends.html"
	changed.Plugins[0].Required = true

	report, err := s.Sync(ctx, changed, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"profile_sidebar"}, report.Points.Updated)
	assert.Equal(t, []string{"profile_sidebar/friends"}, report.Plugins.Updated)

	pl, ok := reg.pluginByKey("profile_sidebar", "friends")
	require.True(t, ok)
	assert.Equal(t, "custom/friends.html", pl.Template)
	assert.True(t, pl.Required)
	assert.Equal(t, int32(9), reg.pointByLabel("profile_sidebar").Index)
}

func TestSync_Delete(t *testing.T) {
	ctx := context.Background()
	reg := newMemoryRegistry()
	s := NewSyncer(reg)

	_, err := s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)

	reduced := sampleDeclared()
	reduced.Points = reduced.Points[:1]
	reduced.Plugins = reduced.Plugins[:1]

	report, err := s.Sync(ctx, reduced, Options{Delete: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"tribe_tabs"}, report.Points.Deleted)
	assert.ElementsMatch(t, []string{"tribe_tabs/topics", "profile_sidebar/photos"}, report.Plugins.Deleted)
	assert.Len(t, reg.points, 1)
	assert.Len(t, reg.plugins, 1)
}

func TestSync_RemovesPluginsOfUndeclaredPoint(t *testing.T) {
	ctx := context.Background()
	reg := newMemoryRegistry()
	s := NewSyncer(reg)

	_, err := s.Sync(ctx, sampleDeclared(), Options{})
	require.NoError(t, err)

	orphaned := sampleDeclared()
	orphaned.Points = orphaned.Points[:1]

	report, err := s.Sync(ctx, orphaned, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"tribe_tabs"}, report.Points.Removed)
	assert.Equal(t, []string{"tribe_tabs/topics"}, report.Plugins.Removed)
	assert.Empty(t, report.Plugins.Reenabled)

	pl, ok := reg.pluginByKey("tribe_tabs", "topics")
	require.True(t, ok)
	assert.Equal(t, domain.PluginStatusRemoved, pl.Status)
	assert.False(t, pl.Registered)

	t.Run("Delete", func(t *testing.T) {
		report, err := s.Sync(ctx, orphaned, Options{Delete: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"tribe_tabs"}, report.Points.Deleted)
		assert.Equal(t, []string{"tribe_tabs/topics"}, report.Plugins.Deleted)
		_, ok := reg.pluginByKey("tribe_tabs", "topics")
		assert.False(t, ok)
	})
}

func TestSync_DryRunRollsBack(t *testing.T) {
	ctx := context.Background()
	reg := newMemoryRegistry()
	s := NewSyncer(reg)

	report, err := s.Sync(ctx, sampleDeclared(), Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Len(t, report.Points.Created, 2)
	assert.Len(t, report.Plugins.Created, 3)
	assert.Empty(t, reg.points)
	assert.Empty(t, reg.plugins)
}
