package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExample(t *testing.T) {
	body := "Hello **world**\n\n![Team](http://x/1.png)\n*Our team*\n\nBye"

	nodes := DefaultExtractor.Extract(body)

	require.Len(t, nodes, 3)
	assert.Equal(t, TextNode{Raw: "Hello **world**\n\n"}, nodes[0])
	assert.Equal(t, ImageNode{URL: "http://x/1.png", Alt: "Team", Caption: "Our team"}, nodes[1])
	assert.Equal(t, TextNode{Raw: "\n\nBye"}, nodes[2])
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Node
	}{
		{
			name: "no images",
			body: "Just some *text*\nover two lines",
			want: []Node{TextNode{Raw: "Just some *text*\nover two lines"}},
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
		{
			name: "only images",
			body: "![a](/1.png)\n\n![b](/2.png)",
			want: []Node{
				ImageNode{URL: "/1.png", Alt: "a"},
				ImageNode{URL: "/2.png", Alt: "b"},
			},
		},
		{
			name: "empty alt gets placeholder",
			body: "![](http://x/cover.jpg)",
			want: []Node{ImageNode{URL: "http://x/cover.jpg", Alt: "Gambar artikel"}},
		},
		{
			name: "caption label is stripped case-insensitively",
			body: "![Kegiatan](http://x/k.png)\n*keterangan:   Kerja bakti*",
			want: []Node{ImageNode{URL: "http://x/k.png", Alt: "Kegiatan", Caption: "Kerja bakti"}},
		},
		{
			name: "label-only caption counts as unset",
			body: "![x](/x.png)\n*Keterangan:*",
			want: []Node{ImageNode{URL: "/x.png", Alt: "x"}},
		},
		{
			name: "caption must be on the next line",
			body: "![x](/x.png)\n\n*not a caption*",
			want: []Node{
				ImageNode{URL: "/x.png", Alt: "x"},
				TextNode{Raw: "\n\n*not a caption*"},
			},
		},
		{
			name: "bold line is not a caption",
			body: "![x](/x.png)\n**bold**",
			want: []Node{
				ImageNode{URL: "/x.png", Alt: "x"},
				TextNode{Raw: "\n**bold**"},
			},
		},
		{
			name: "crlf caption",
			body: "![x](/x.png)\r\n*cap*\r\nafter",
			want: []Node{
				ImageNode{URL: "/x.png", Alt: "x", Caption: "cap"},
				TextNode{Raw: "\r\nafter"},
			},
		},
		{
			name: "malformed directives stay text",
			body: "![broken](no-close and ![also [nested]](x",
			want: []Node{TextNode{Raw: "![broken](no-close and ![also [nested]](x"}},
		},
		{
			name: "directive on the caption line stays an image",
			body: "![a](/a.png)\n*![b](/b.png)*",
			want: []Node{
				ImageNode{URL: "/a.png", Alt: "a"},
				TextNode{Raw: "\n*"},
				ImageNode{URL: "/b.png", Alt: "b"},
				TextNode{Raw: "*"},
			},
		},
		{
			name: "caption mixing text and a directive stays an image",
			body: "![a](/a.png)\n*lihat ![b](/b.png)*",
			want: []Node{
				ImageNode{URL: "/a.png", Alt: "a"},
				TextNode{Raw: "\n*lihat "},
				ImageNode{URL: "/b.png", Alt: "b"},
				TextNode{Raw: "*"},
			},
		},
		{
			name: "blank text between images is dropped",
			body: "![a](/a.png)   \n  ![b](/b.png)",
			want: []Node{
				ImageNode{URL: "/a.png", Alt: "a"},
				ImageNode{URL: "/b.png", Alt: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultExtractor.Extract(tt.body))
		})
	}
}

func TestExtractKeepsEveryDirective(t *testing.T) {
	bodies := []string{
		"![a](/a.png)\n*![b](/b.png)*",
		"![a](/a.png)\n*![b](/b.png)*\n*![c](/c.png)*",
		"x ![a](/a.png)\n*cap*\n![b](/b.png) ![c](/c.png)\n*Keterangan: ![d](/d.png)*",
		"![a](/a.png)![b](/b.png)\n*c*",
	}
	for _, body := range bodies {
		var got []string
		for _, n := range DefaultExtractor.Extract(body) {
			if img, ok := n.(ImageNode); ok {
				got = append(got, img.URL)
			}
		}
		assert.Equal(t, ImageURLs(body), got, "images of %q", body)
	}
}

func TestExtractCustomLabels(t *testing.T) {
	e := NewExtractor("Image", []string{"Caption:", "Keterangan:"})

	nodes := e.Extract("![](/a.png)\n*Caption: sunrise*")

	require.Len(t, nodes, 1)
	assert.Equal(t, ImageNode{URL: "/a.png", Alt: "Image", Caption: "sunrise"}, nodes[0])
}

func TestExtractIsDeterministic(t *testing.T) {
	body := "Intro\n![a](/a.png)\n*one*\nmiddle ![b](/b.png) end"
	first := DefaultExtractor.Extract(body)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DefaultExtractor.Extract(body))
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	bodies := []string{
		"Hello **world**\n\n![Team](http://x/1.png)\n*Our team*\n\nBye",
		"![](http://x/cover.jpg)\n\nText after",
		"Before ![a](/a.png) inline ![b](/b.png)\n*Keterangan: b*",
		"no images at all",
	}
	for _, body := range bodies {
		nodes := DefaultExtractor.Extract(body)
		again := DefaultExtractor.Extract(DefaultExtractor.Serialize(nodes))
		assert.Equal(t, nodes, again, "round trip of %q", body)
	}
}

func TestImageURLs(t *testing.T) {
	body := "![c](https://cdn/a.png)\ntext ![](/media/artikel/b.png)\n[link](https://x)"
	assert.Equal(t, []string{"https://cdn/a.png", "/media/artikel/b.png"}, ImageURLs(body))
	assert.Empty(t, ImageURLs("plain"))
}
