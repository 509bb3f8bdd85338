package cloudinary

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsSubmissionFolder(t *testing.T) {
	svc, err := New(Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
	}, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, defaultFolder, svc.folder)

	scoped, err := New(Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		Folder:    "/formahub/attachments/",
	}, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "formahub/attachments", scoped.folder)
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.Nop())
	require.Error(t, err)
}

func TestBuildPublicIDSanitizesName(t *testing.T) {
	id := buildPublicID("plan d'affaires (final).pdf")
	require.True(t, strings.HasPrefix(id, "plan-d-affaires--final"))
	require.NotContains(t, id, " ")
	require.NotContains(t, id, "'")

	fallback := buildPublicID("...")
	require.True(t, strings.HasPrefix(fallback, "upload-"))
}
