//go:build unit

package controllers_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Orbs/jspm-git/internal/domain/commands"
	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/infrastructure/controllers"
	"github.com/Orbs/jspm-git/test/domain/commanddoubles"
)

// newCommand mirrors how the root command mounts a controller.
func newCommand(t *testing.T, controller entities.Controller, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "jspm-git.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("baseurl: https://git.example.com/\n"), 0o600))

	root := &cobra.Command{Use: "jspm-git", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("config", configPath, "")
	root.PersistentFlags().String("baseurl", "", "")
	root.PersistentFlags().Uint("retries", 0, "")
	root.PersistentFlags().String("output", "json", "")

	bind := controller.GetBind()
	sub := &cobra.Command{Use: bind.Use, RunE: controller.Execute}
	controller.AddFlags(sub)
	root.AddCommand(sub)

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs(append([]string{sub.Name()}, args...))
	return root, out
}

func factoryFor(location commands.Location, captured **entities.Settings) controllers.LocationFactory {
	return func(settings *entities.Settings) (commands.Location, error) {
		if captured != nil {
			*captured = settings
		}
		return location, nil
	}
}

func TestLookupController(t *testing.T) {
	t.Parallel()

	t.Run("should print the versions newest first", func(t *testing.T) {
		t.Parallel()

		// given
		location := &commanddoubles.StubLocation{LookupResult: &entities.LookupResult{
			Versions: entities.VersionMap{
				"1.0.0":  {Hash: "a", Stable: true},
				"2.0.0":  {Hash: "b", Stable: true, Meta: entities.VersionMeta{VPrefix: true}},
				"master": {Hash: "c"},
			},
		}}
		root, out := newCommand(t, controllers.NewLookupController(factoryFor(location, nil)), "org/lib")

		// when
		err := root.Execute()

		// then
		require.NoError(t, err)
		var printed struct {
			Versions entities.VersionMap `json:"versions"`
			Order    []string            `json:"order"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
		assert.Equal(t, []string{"2.0.0", "1.0.0", "master"}, printed.Order)
		assert.True(t, printed.Versions["2.0.0"].Meta.VPrefix)
		assert.Equal(t, []string{"org/lib"}, location.LookupCalls)
		assert.True(t, location.Disposed)
	})

	t.Run("should retry a retriable failure when asked to", func(t *testing.T) {
		t.Parallel()

		// given
		location := &commanddoubles.StubLocation{
			LookupErrs: []error{
				entities.NewSourceError(entities.KindRetriable, entities.StageResolving, nil, "connection reset"),
			},
			LookupResult: &entities.LookupResult{NotFound: true},
		}
		root, out := newCommand(t, controllers.NewLookupController(factoryFor(location, nil)), "org/lib")
		require.NoError(t, root.PersistentFlags().Set("retries", "1"))

		// when
		err := root.Execute()

		// then
		require.NoError(t, err)
		assert.Len(t, location.LookupCalls, 2)
		assert.Contains(t, out.String(), `"notFound": true`)
	})

	t.Run("should print yaml on request", func(t *testing.T) {
		t.Parallel()

		// given
		location := &commanddoubles.StubLocation{LookupResult: &entities.LookupResult{
			Versions: entities.VersionMap{"1.0.0": {Hash: "a", Stable: true}},
		}}
		root, out := newCommand(t, controllers.NewLookupController(factoryFor(location, nil)), "org/lib")
		require.NoError(t, root.PersistentFlags().Set("output", "yaml"))

		// when
		err := root.Execute()

		// then
		require.NoError(t, err)
		var printed map[string]any
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &printed))
		assert.Contains(t, printed, "versions")
	})

	t.Run("should override the base location from the flag", func(t *testing.T) {
		t.Parallel()

		// given
		var settings *entities.Settings
		location := &commanddoubles.StubLocation{LookupResult: &entities.LookupResult{}}
		root, _ := newCommand(t, controllers.NewLookupController(factoryFor(location, &settings)), "org/lib")
		require.NoError(t, root.PersistentFlags().Set("baseurl", "git@github.com"))

		// when
		err := root.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, "git@github.com", settings.BaseURL)
	})
}

func TestDownloadController(t *testing.T) {
	t.Parallel()

	t.Run("should pass the request and print the manifest", func(t *testing.T) {
		t.Parallel()

		// given
		location := &commanddoubles.StubLocation{
			DownloadResult: &commands.DownloadResult{Manifest: entities.Manifest{"name": "lib"}},
		}
		root, out := newCommand(t, controllers.NewDownloadController(factoryFor(location, nil)),
			"org/lib", "1.2.0", "/tmp/out", "--v-prefix", "--hash", "abc")

		// when
		err := root.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, []commands.DownloadRequest{{
			RepoID:  "org/lib",
			Version: "1.2.0",
			Hash:    "abc",
			Meta:    entities.VersionMeta{VPrefix: true},
			OutDir:  "/tmp/out",
		}}, location.DownloadCalls)
		assert.JSONEq(t, `{"name":"lib"}`, out.String())
	})

	t.Run("should not retry a fatal failure", func(t *testing.T) {
		t.Parallel()

		// given
		location := &commanddoubles.StubLocation{
			DownloadErr: entities.NewSourceError(entities.KindFatal, entities.StageCloning, nil, "too big"),
		}
		root, _ := newCommand(t, controllers.NewDownloadController(factoryFor(location, nil)),
			"org/lib", "1.2.0", "/tmp/out")
		require.NoError(t, root.PersistentFlags().Set("retries", "3"))

		// when
		err := root.Execute()

		// then
		require.Error(t, err)
		assert.Len(t, location.DownloadCalls, 1)
	})
}

func TestProcessController(t *testing.T) {
	t.Parallel()

	t.Run("should process the manifest stored in the directory", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
			[]byte(`{"name":"lib","dependencies":{"x":"1"}}`), 0o600))
		location := &commanddoubles.StubLocation{}
		root, out := newCommand(t, controllers.NewProcessController(factoryFor(location, nil)), dir, "git:org/lib@1.0.0")

		// when
		err := root.Execute()

		// then
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"lib"}`, out.String())
		assert.Equal(t, []string{"git:org/lib@1.0.0"}, location.ProcessedPackages)
	})
}

func TestEncodeAuthController(t *testing.T) {
	t.Parallel()

	t.Run("should print a token that decodes back to the credential", func(t *testing.T) {
		t.Parallel()

		// given
		root, out := newCommand(t, controllers.NewEncodeAuthController(),
			"--username", "alice", "--password", "p:a@ss")

		// when
		err := root.Execute()

		// then
		require.NoError(t, err)
		cred := entities.DecodeCredential(out.String())
		require.NotNil(t, cred)
		assert.Equal(t, entities.Credential{Username: "alice", Password: "p:a@ss"}, *cred)
	})

	t.Run("should require a username", func(t *testing.T) {
		t.Parallel()

		// given
		root, _ := newCommand(t, controllers.NewEncodeAuthController(), "--password", "x")

		// when
		err := root.Execute()

		// then
		assert.Error(t, err)
	})
}
