package identity

import (
	"testing"

	"CreativeAnalytics/internal/domain"
)

func newTestParser() *Parser {
	return NewParser(Vocabulary{
		Media: []string{"video", "image"},
		Types: []string{"banner", "native"},
	})
}

func TestParseDescriptiveName(t *testing.T) {
	t.Parallel()

	got := newTestParser().Parse("48213 Banner V2 android (Jane Doe) Video")
	want := domain.CreativeIdentity{
		ArticleID: "48213",
		Author:    "Jane Doe",
		Media:     "video",
		Version:   "v2",
		Type:      "banner",
	}
	if got != want {
		t.Fatalf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParsePositionalName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want domain.CreativeIdentity
	}{
		{
			name: "full underscore",
			in:   "1001_ann_image_v03_native",
			want: domain.CreativeIdentity{ArticleID: "1001", Author: "ann", Media: "image", Version: "v3", Type: "native"},
		},
		{
			name: "hyphens and bare version",
			in:   "1002-bob-video-4-banner",
			want: domain.CreativeIdentity{ArticleID: "1002", Author: "bob", Media: "video", Version: "v4", Type: "banner"},
		},
		{
			name: "excess segments ignored",
			in:   "1003_ann_video_v1_banner_q3_final",
			want: domain.CreativeIdentity{ArticleID: "1003", Author: "ann", Media: "video", Version: "v1", Type: "banner"},
		},
		{
			name: "missing trailing segments",
			in:   "1004_carl",
			want: domain.CreativeIdentity{ArticleID: "1004", Author: "carl", Media: domain.Unknown, Version: domain.Unknown, Type: domain.Unknown, Partial: true},
		},
		{
			name: "unrecognized media and type",
			in:   "1005_dana_hologram_v1_popup",
			want: domain.CreativeIdentity{ArticleID: "1005", Author: "dana", Media: domain.Other, Version: "v1", Type: domain.Other},
		},
	}

	p := newTestParser()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := p.Parse(tc.in); got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseNeverFails(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	for _, in := range []string{"", "   ", "___", "-", "summer sale campaign", "(", "v1 android ()"} {
		got := p.Parse(in)
		if got.HasArticle() {
			t.Fatalf("Parse(%q) should not yield an article id, got %+v", in, got)
		}
		if !got.Partial {
			t.Fatalf("Parse(%q) should be partial", in)
		}
		if got.Author != domain.Unknown || got.Media != domain.Unknown {
			t.Fatalf("Parse(%q) should default to unknown, got %+v", in, got)
		}
	}
}

func TestParseKnownAuthors(t *testing.T) {
	t.Parallel()

	p := NewParser(Vocabulary{Authors: []string{"Ann"}})

	if got := p.Parse("1_ann_video_v1_banner").Author; got != "Ann" {
		t.Fatalf("expected canonical known author, got %q", got)
	}
	if got := p.Parse("2_mallory_video_v1_banner").Author; got != domain.Unknown {
		t.Fatalf("expected unknown author, got %q", got)
	}
}

func TestParseClassifiesVocabulary(t *testing.T) {
	t.Parallel()

	p := NewParser(Vocabulary{Media: []string{"video"}, Types: []string{"banner"}})

	got := p.Parse("1_ann_ Video _v1_banner")
	if got.Media != "video" {
		t.Fatalf("expected vocabulary match, got %q", got.Media)
	}
	got = p.Parse("1_ann")
	if got.Media != domain.Unknown {
		t.Fatalf("expected unknown for missing segment, got %q", got.Media)
	}
	got = p.Parse("1_ann_gif_v1_banner")
	if got.Media != domain.Other {
		t.Fatalf("expected other for unrecognized value, got %q", got.Media)
	}
}

func TestParseTruncatedDescriptiveName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want domain.CreativeIdentity
	}{
		{
			name: "media missing",
			in:   "1004 banner v2 android (Ann)",
			want: domain.CreativeIdentity{ArticleID: "1004", Author: "Ann", Media: domain.Unknown, Version: "v2", Type: "banner", Partial: true},
		},
		{
			name: "author and media missing",
			in:   "1004 banner v2",
			want: domain.CreativeIdentity{ArticleID: "1004", Author: domain.Unknown, Media: domain.Unknown, Version: "v2", Type: "banner", Partial: true},
		},
		{
			name: "article id only",
			in:   "1004",
			want: domain.CreativeIdentity{ArticleID: "1004", Author: domain.Unknown, Media: domain.Unknown, Version: domain.Unknown, Type: domain.Unknown, Partial: true},
		},
	}

	p := newTestParser()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := p.Parse(tc.in); got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAttributes(t *testing.T) {
	t.Parallel()

	p := NewParser(Vocabulary{Media: []string{"video"}, Types: []string{"banner"}})

	got := p.Attributes(domain.BacklogRecord{ArticleID: "7", Author: " Ann ", Media: "VIDEO", Type: "poster", Version: "3"})
	if got.Author != "Ann" || got.Media != "video" || got.Type != domain.Other || got.Version != "v3" {
		t.Fatalf("unexpected attributes %+v", got)
	}

	blank := p.Attributes(domain.BacklogRecord{ArticleID: "8"})
	if blank.Author != "" || blank.Media != "" || blank.Type != "" || blank.Version != "" {
		t.Fatalf("blank attributes must stay blank, got %+v", blank)
	}
}
