package external

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePackage = `{
	"info": {
		"name": "discord.py",
		"version": "1.7.3",
		"summary": "A Python wrapper for the Discord API",
		"author": "Rapptz",
		"license": "MIT",
		"home_page": "https://github.com/Rapptz/discord.py",
		"package_url": "https://pypi.org/project/discord.py/",
		"requires_dist": ["aiohttp (<3.8.0,>=3.6.0)"]
	}
}`

func TestPackageEmbed(t *testing.T) {
	var pkg PyPIPackage
	require.NoError(t, json.Unmarshal([]byte(samplePackage), &pkg))

	embed := PackageEmbed(&pkg)
	assert.Equal(t, "discord.py 1.7.3", embed.Title)
	assert.Equal(t, "https://pypi.org/project/discord.py/", embed.URL)
	assert.Equal(t, "A Python wrapper for the Discord API", embed.Description)

	names := make(map[string]string)
	for _, f := range embed.Fields {
		names[f.Name] = f.Value
	}
	assert.Equal(t, "Rapptz", names["Author"])
	assert.Equal(t, "MIT", names["License"])
	assert.Contains(t, names["Dependencies (1)"], "aiohttp")
}

func TestPackageEmbedSparse(t *testing.T) {
	var pkg PyPIPackage
	pkg.Info.Name = "left-pad"
	pkg.Info.Version = "0.0.1"

	embed := PackageEmbed(&pkg)
	assert.Equal(t, "left-pad 0.0.1", embed.Title)
	assert.Empty(t, embed.Fields)
}
