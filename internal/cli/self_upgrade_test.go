//go:build !docker

package cli

import (
	"errors"
	"testing"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubRelease(t *testing.T, version string, found bool, err error) *int {
	t.Helper()
	originalVersion := Version
	originalDetect, originalUpdate, originalConfirm := detectLatest, updateTo, upgradeConfirm
	t.Cleanup(func() {
		Version = originalVersion
		detectLatest, updateTo, upgradeConfirm = originalDetect, originalUpdate, originalConfirm
	})

	detectLatest = func(slug string) (*selfupdate.Release, bool, error) {
		assert.Equal(t, releaseRepo, slug)
		if err != nil || !found {
			return nil, found, err
		}
		return &selfupdate.Release{
			Version:  semver.MustParse(version),
			AssetURL: "https://example.invalid/hirefunnel.tar.gz",
		}, true, nil
	}

	updates := 0
	updateTo = func(assetURL, cmdPath string) error {
		updates++
		return nil
	}
	return &updates
}

func TestCurrentVersion(t *testing.T) {
	v, err := currentVersion("v1.4.2")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", v.String())

	_, err = currentVersion("")
	assert.ErrorContains(t, err, "release builds")

	_, err = currentVersion("dev")
	assert.ErrorContains(t, err, "invalid current version")
}

func TestRunSelfUpgradeAlreadyUpToDate(t *testing.T) {
	updates := stubRelease(t, "1.0.0", true, nil)
	Version = "1.0.0"

	output := captureStdout(t, func() {
		require.NoError(t, runSelfUpgrade(false, true))
	})

	assert.Contains(t, output, "HireFunnel is already up to date")
	assert.Equal(t, 0, *updates)
}

func TestRunSelfUpgradeCheckOnly(t *testing.T) {
	updates := stubRelease(t, "2.0.0", true, nil)
	Version = "1.0.0"

	output := captureStdout(t, func() {
		require.NoError(t, runSelfUpgrade(true, false))
	})

	assert.Contains(t, output, "v1.0.0 --> v2.0.0")
	assert.Equal(t, 0, *updates)
}

func TestRunSelfUpgradeInstalls(t *testing.T) {
	updates := stubRelease(t, "2.0.0", true, nil)
	Version = "1.0.0"

	output := captureStdout(t, func() {
		require.NoError(t, runSelfUpgrade(false, true))
	})

	assert.Contains(t, output, "Updated HireFunnel to v2.0.0")
	assert.Equal(t, 1, *updates)
}

func TestRunSelfUpgradeCancelled(t *testing.T) {
	updates := stubRelease(t, "2.0.0", true, nil)
	Version = "1.0.0"
	upgradeConfirm = func() (bool, error) { return false, nil }

	output := captureStdout(t, func() {
		require.NoError(t, runSelfUpgrade(false, false))
	})

	assert.Contains(t, output, "Update cancelled.")
	assert.Equal(t, 0, *updates)
}

func TestRunSelfUpgradeNoRelease(t *testing.T) {
	stubRelease(t, "", false, nil)
	Version = "1.0.0"

	captureStdout(t, func() {
		assert.ErrorContains(t, runSelfUpgrade(false, true), "no releases found")
	})
}

func TestRunSelfUpgradeDetectError(t *testing.T) {
	stubRelease(t, "", false, errors.New("rate limited"))
	Version = "1.0.0"

	captureStdout(t, func() {
		assert.ErrorContains(t, runSelfUpgrade(false, true), "rate limited")
	})
}
