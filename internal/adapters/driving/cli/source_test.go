package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

func TestSourceCmd_HasSubcommands(t *testing.T) {
	commands := sourceCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "add")
	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "remove")
}

func TestSourceAddCmd_LocalSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	fake := sourceService.(*fakeSourceService)

	out, err := executeCommand("source", "add", "local",
		"--name", "my-plugin", "--path", "/srv/my-plugin")

	require.NoError(t, err)
	assert.Contains(t, out, `Source "my-plugin" added.`)
	require.Len(t, fake.added, 1)
	added := fake.added[0]
	assert.Equal(t, domain.SourceTypeLocal, added.Type)
	assert.Equal(t, "/srv/my-plugin", added.Config["path"])
	assert.Equal(t, domain.ContentCode, added.ContentType)
	assert.True(t, added.Enabled)
}

func TestSourceAddCmd_GitHubDocsSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	fake := sourceService.(*fakeSourceService)

	_, err := executeCommand("source", "add", "github",
		"--name", "wp-docs", "--repo", "WordPress/developer-docs",
		"--ref", "trunk", "--subfolder", "docs", "--content", "documentation")

	require.NoError(t, err)
	require.Len(t, fake.added, 1)
	added := fake.added[0]
	assert.Equal(t, domain.SourceTypeGitHub, added.Type)
	assert.Equal(t, "WordPress/developer-docs", added.Config["repo"])
	assert.Equal(t, "trunk", added.Config["ref"])
	assert.Equal(t, "docs", added.Config["subfolder"])
	assert.Equal(t, domain.ContentDocs, added.ContentType)
}

func TestSourceAddCmd_RequiresName(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("source", "add", "local", "--name", "", "--path", "/tmp")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSourceAddCmd_PropagatesServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	sourceService.(*fakeSourceService).err = domain.ErrAlreadyExists

	_, err := executeCommand("source", "add", "local",
		"--name", "dupe", "--path", "/tmp")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSourceListCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	sourceService.(*fakeSourceService).sources = []domain.Source{
		{
			Name: "my-plugin", Type: domain.SourceTypeLocal,
			ContentType: domain.ContentCode, Enabled: true,
			Config: map[string]string{"path": "/srv/my-plugin"},
		},
		{
			Name: "wc", Type: domain.SourceTypeGitHub,
			ContentType: domain.ContentCode, Enabled: false,
			Config: map[string]string{"repo": "woocommerce/woocommerce"},
		},
	}

	out, err := executeCommand("source", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "my-plugin (local, code, enabled)")
	assert.Contains(t, out, "wc (github, code, disabled)")
	assert.Contains(t, out, "path: /srv/my-plugin")
	assert.Contains(t, out, "repo: woocommerce/woocommerce")
}

func TestSourceListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("source", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No sources registered.")
}

func TestSourceRemoveCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	fake := sourceService.(*fakeSourceService)

	out, err := executeCommand("source", "remove", "my-plugin")

	require.NoError(t, err)
	assert.Contains(t, out, `Source "my-plugin" removed.`)
	assert.Equal(t, []string{"my-plugin"}, fake.removed)
}

func TestSourceRemoveCmd_RequiresArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("source", "remove")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
