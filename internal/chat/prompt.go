package chat

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/models"
)

// Message roles accepted from visitors. System messages only come from
// BuildPrompt.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxHistory caps how many conversation turns are forwarded to the model.
const MaxHistory = 20

// ErrInvalidMessages is returned for a conversation that cannot be sent.
var ErrInvalidMessages = errors.New("invalid messages format")

// ValidateConversation checks visitor messages and returns the most recent
// MaxHistory of them.
func ValidateConversation(messages []models.ChatMessage) ([]models.ChatMessage, error) {
	if len(messages) == 0 {
		return nil, ErrInvalidMessages
	}
	for i, m := range messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return nil, fmt.Errorf("%w: message %d has role %q", ErrInvalidMessages, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, fmt.Errorf("%w: message %d is empty", ErrInvalidMessages, i)
		}
	}
	if messages[len(messages)-1].Role != RoleUser {
		return nil, fmt.Errorf("%w: last message must come from the user", ErrInvalidMessages)
	}
	if len(messages) > MaxHistory {
		messages = messages[len(messages)-MaxHistory:]
	}
	return messages, nil
}

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatDate writes t as "20 Juli 2024".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// MemberLines renders one bullet per member, followed by a markdown photo
// line when the member has a photo.
func MemberLines(members []*models.Member) string {
	if len(members) == 0 {
		return "- Belum ada data anggota."
	}
	lines := make([]string, 0, len(members))
	for _, m := range members {
		line := fmt.Sprintf("- **%s** (%s)", m.Name, m.Role)
		if m.PhotoURL != "" {
			line += fmt.Sprintf("\n![%s](%s)", m.Name, m.PhotoURL)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n\n")
}

// ArticleLines renders one bullet per article with its publication date.
func ArticleLines(articles []*models.Article) string {
	if len(articles) == 0 {
		return "- Belum ada data artikel kegiatan terbaru."
	}
	lines := make([]string, 0, len(articles))
	for _, a := range articles {
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s", FormatDate(a.PublishedAt), a.Title, a.Excerpt))
	}
	return strings.Join(lines, "\n")
}

var promptTemplate = template.Must(template.New("prompt").Parse(`
Kamu adalah "{{.Profile.AssistantName}}", asisten virtual yang ramah dan membantu untuk website "{{.Profile.Name}}".
Website ini didedikasikan untuk "{{.Profile.Tagline}}".

**Identitas & Tujuan:**
- Nama: {{.Profile.AssistantName}}
- Tujuan: Menjawab pertanyaan pengunjung seputar website ini, program kerja, anggota kelompok, dan informasi terkait.
- Nada Bicara: {{.Profile.Tone}}
- Bahasa: {{.Profile.Language}}.

**Informasi Penting (Knowledge Base):**

1. **Anggota Kelompok (Data Terbaru dari Database):**
{{.Members}}

2. **Kegiatan & Artikel Terbaru (Data Terbaru dari Database):**
{{.Articles}}
{{if .Profile.Theme}}
3. **Tema Besar:**
    "{{.Profile.Theme}}".
{{end}}{{if .Profile.Focus}}
4. **Fokus Utama:**
{{range .Profile.Focus}}    - **{{.Title}}:** {{.Description}}
{{end}}{{end}}{{if .Profile.Programs}}
5. **Program Kerja Utama:**
{{range .Profile.Programs}}    - {{.}}
{{end}}{{end}}
6. **Kontak:**
{{with .Profile.Contacts}}{{if .Email}}    - Email: {{.Email}}
{{end}}{{if .Instagram}}    - Instagram: {{.Instagram}}
{{end}}{{if .Facebook}}    - Facebook: {{.Facebook}}
{{end}}{{if .Location}}    - Lokasi: {{.Location}}
{{end}}{{end}}{{if .Profile.Team}}    - **Tim:** {{.Profile.Team}}
{{end}}
**Aturan Penolakan:**
- Jika pengguna bertanya tentang hal di luar konteks website ini, tolak dengan sopan.
- Contoh penolakan: "Mohon maaf, saya adalah {{.Profile.AssistantName}} yang khusus membantu seputar informasi website {{.Profile.Name}}. Saya tidak dapat menjawab pertanyaan di luar topik tersebut."

**Instruksi Tambahan:**
- Jawablah dengan ringkas dan jelas.
- **PENTING:** Jika ditanya mengenai anggota, TAMPILKAN FOTO mereka menggunakan format Markdown: ` + "`![Nama Anggota](URL_FOTO)`" + `. Data foto sudah tersedia di atas.
- Jika data anggota atau kegiatan tidak ditemukan, sampaikan permohonan maaf dan arahkan ke kontak.
`))

// BuildPrompt renders the system prompt from the static profile and the
// current rows.
func BuildPrompt(profile *config.SiteProfile, members []*models.Member, articles []*models.Article) (string, error) {
	if profile == nil {
		return "", errors.New("site profile is required")
	}
	var b strings.Builder
	err := promptTemplate.Execute(&b, struct {
		Profile  *config.SiteProfile
		Members  string
		Articles string
	}{profile, MemberLines(members), ArticleLines(articles)})
	if err != nil {
		return "", fmt.Errorf("failed to render chat prompt: %w", err)
	}
	return b.String(), nil
}
