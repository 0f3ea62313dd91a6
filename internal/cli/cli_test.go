package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("STORAGE_LOCAL_DIR", t.TempDir())
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestArticleFromMarkdown(t *testing.T) {
	t.Run("yaml front matter", func(t *testing.T) {
		path := writeFile(t, "post.md", "---\ntitle: Kerja Bakti\ndate: 2024-07-20\ntags: [warga]\n---\n\nWarga membersihkan selokan.\n")
		in, err := articleFromMarkdown(path, "Kegiatan")
		require.NoError(t, err)
		assert.Equal(t, "Kerja Bakti", in.Title)
		assert.Equal(t, "Kegiatan", in.Category)
		assert.Equal(t, "Warga membersihkan selokan.", in.Content)
		assert.Equal(t, "2024-07-20T00:00:00Z", in.PublishedAt)
	})

	t.Run("no front matter", func(t *testing.T) {
		path := writeFile(t, "rapat-rt_bulanan.md", "Isi rapat.\n")
		in, err := articleFromMarkdown(path, "Berita")
		require.NoError(t, err)
		assert.Equal(t, "Rapat Rt Bulanan", in.Title)
		assert.Equal(t, "Berita", in.Category)
		assert.Equal(t, "Isi rapat.", in.Content)
	})

	t.Run("broken front matter", func(t *testing.T) {
		path := writeFile(t, "bad.md", "---\ntitle: [unclosed\n---\nbody")
		_, err := articleFromMarkdown(path, "")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := articleFromMarkdown(filepath.Join(t.TempDir(), "nope.md"), "")
		assert.Error(t, err)
	})
}

func TestPreviewPlain(t *testing.T) {
	setTestEnv(t)
	path := writeFile(t, "post.md", "---\ntitle: Pentas Seni\n---\n\nPembukaan.\n\n![Balai warga](/media/artikel/balai.jpg)\n*Keterangan: Panggung di balai*\n\nPenutup.")

	out, err := runCLI(t, "preview", "--plain", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Pentas Seni")
	assert.Contains(t, out, "[gambar 1] Balai warga")
	assert.Contains(t, out, "Panggung di balai")
	assert.NotContains(t, out, "Keterangan:")
	assert.Less(t, bytes.Index([]byte(out), []byte("Pembukaan.")), bytes.Index([]byte(out), []byte("Penutup.")))
}

func TestPreviewNeedsInput(t *testing.T) {
	setTestEnv(t)
	_, err := runCLI(t, "preview", "--plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--slug")
}

func TestImportRejectsUnknownResource(t *testing.T) {
	setTestEnv(t)
	_, err := runCLI(t, "import", "--resource", "users", "users.ndjson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "articles, members")
}

func TestUserCreateRequiresCredentials(t *testing.T) {
	setTestEnv(t)
	_, err := runCLI(t, "user", "create", "--name", "Admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email and --password")
}

func TestConfigErrorsSurface(t *testing.T) {
	setTestEnv(t)
	t.Setenv("SESSION_SECRET", "short")
	_, err := runCLI(t, "preview", "--plain", "x.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMarkdown(&buf, "Kegiatan terbaru adalah **Kerja** Bakti.", 60))
	assert.Contains(t, buf.String(), "Kerja")
	assert.Contains(t, buf.String(), "Kegiatan")
}
