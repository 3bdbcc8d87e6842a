package pathutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mtt-project/mtt/pkg/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDataDir_Linux(t *testing.T) {
	defer pathutil.SetPlatform("linux", nil, "/home/u")()
	dir, err := pathutil.UserDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/u", ".local", "share"), dir)
}

func TestUserDataDir_LinuxXDG(t *testing.T) {
	defer pathutil.SetPlatform("linux", map[string]string{"XDG_DATA_HOME": "/data"}, "/home/u")()
	dir, err := pathutil.UserDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/data", dir)
}

func TestUserDataDir_LinuxRelativeXDGIgnored(t *testing.T) {
	defer pathutil.SetPlatform("linux", map[string]string{"XDG_DATA_HOME": "rel"}, "/home/u")()
	dir, err := pathutil.UserDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/u", ".local", "share"), dir)
}

func TestUserDataDir_Darwin(t *testing.T) {
	defer pathutil.SetPlatform("darwin", nil, "/Users/u")()
	dir, err := pathutil.UserDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/Users/u", "Library", "Application Support"), dir)
}

func TestUserDataDir_Windows(t *testing.T) {
	defer pathutil.SetPlatform("windows", map[string]string{"APPDATA": `C:\Users\u\AppData\Roaming`}, "")()
	dir, err := pathutil.UserDataDir()
	require.NoError(t, err)
	assert.Equal(t, `C:\Users\u\AppData\Roaming`, dir)
}

func TestUserDataDir_WindowsMissingAppData(t *testing.T) {
	defer pathutil.SetPlatform("windows", nil, "")()
	_, err := pathutil.UserDataDir()
	assert.Error(t, err)
}

func TestAppDataDir_CreatesDefault(t *testing.T) {
	home := t.TempDir()
	defer pathutil.SetPlatform("linux", nil, home)()

	dir, err := pathutil.AppDataDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "mtt"), dir)
	assert.DirExists(t, dir)
}

func TestAppDataDir_Override(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom")
	dir, err := pathutil.AppDataDir(override)
	require.NoError(t, err)
	assert.Equal(t, override, dir)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultConfigPath_Linux(t *testing.T) {
	defer pathutil.SetPlatform("linux", map[string]string{"XDG_CONFIG_HOME": "/cfg"}, "/home/u")()
	path, err := pathutil.DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cfg", "mtt", "config.yaml"), path)
}
