package classify

import (
	"testing"

	"NewsClipper/internal/config"
)

func carrierCategory() config.CategoryConfig {
	return config.CategoryConfig{
		Key:       "mno",
		Exclusive: true,
		Umbrella: &config.EntityConfig{
			Label:  "통신 3사",
			Tokens: []string{"통신 3사", "통신3사", "이통3사", "통신사"},
		},
		Entities: []config.EntityConfig{
			{Label: "SKT", Tokens: []string{"SK텔레콤", "SKT"}},
			{Label: "KT", Tokens: []string{"KT", "케이티"}},
			{Label: "LG U+", Tokens: []string{"LG유플러스", "LG U+"}},
		},
		Exclusions: []string{"KT&G", "KTX", "KT텔레캅"},
	}
}

var subsidiaryTokens = []string{"SK브로드밴드", "KT스카이라이프", "스카이라이프", "LG헬로비전"}

func newCarrierClassifier(t *testing.T) *Classifier {
	t.Helper()
	cl, err := New(carrierCategory(), subsidiaryTokens)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return cl
}

func TestClassifySingleEntity(t *testing.T) {
	t.Parallel()
	cl := newCarrierClassifier(t)

	tag, ok := cl.Classify(MatchText("SK텔레콤, 5G 요금제 개편"))
	if !ok || tag != "SKT" {
		t.Fatalf("got (%q, %v), want (SKT, true)", tag, ok)
	}
}

func TestClassifyShortTokenNeedsBoundary(t *testing.T) {
	t.Parallel()
	cl := newCarrierClassifier(t)

	// "KT" must not fire inside "SKT".
	tag, ok := cl.Classify(MatchText("SKT 기변 혜택 확대"))
	if !ok || tag != "SKT" {
		t.Fatalf("got (%q, %v), want (SKT, true)", tag, ok)
	}

	tag, ok = cl.Classify(MatchText("KT, 신규 결합상품 공개"))
	if !ok || tag != "KT" {
		t.Fatalf("got (%q, %v), want (KT, true)", tag, ok)
	}
}

func TestClassifyUmbrellaPrecedence(t *testing.T) {
	t.Parallel()
	cl := newCarrierClassifier(t)

	// Two or more entities in one title consolidate to the umbrella tag.
	cases := []string{
		"SK텔레콤과 KT, 주파수 공동 사용 합의",
		"SK텔레콤·KT·LG유플러스 3사 협약 체결",
		"통신 3사, 5G 품질 평가 발표",
	}
	for _, title := range cases {
		tag, ok := cl.Classify(MatchText(title))
		if !ok || tag != "통신 3사" {
			t.Fatalf("title %q: got (%q, %v), want (통신 3사, true)", title, tag, ok)
		}
	}
}

func TestClassifyExclusionBeatsEntityMatch(t *testing.T) {
	t.Parallel()
	cl := newCarrierClassifier(t)

	// The brand-prefix false positives reject even when a real entity token
	// is also present.
	cases := []string{
		"KT&G, 신제품 출시",
		"KTX 운행 중단, KT 통신망은 정상",
		"KT텔레캅 보안 서비스 확대",
	}
	for _, title := range cases {
		if tag, ok := cl.Classify(MatchText(title)); ok {
			t.Fatalf("title %q: expected rejection, got %q", title, tag)
		}
	}
}

func TestClassifyForeignVocabularyRejects(t *testing.T) {
	t.Parallel()
	cl := newCarrierClassifier(t)

	// Subsidiary vocabulary routes the title to its own category pass.
	if tag, ok := cl.Classify(MatchText("KT스카이라이프, 신규 채널 공개")); ok {
		t.Fatalf("expected rejection, got %q", tag)
	}
}

func TestClassifyNoMatchRejects(t *testing.T) {
	t.Parallel()
	cl := newCarrierClassifier(t)

	// No fallback tag: unmatched titles are rejected even when the query
	// was scoped to one entity.
	if tag, ok := cl.Classify(MatchText("오늘의 날씨와 주요 뉴스")); ok {
		t.Fatalf("expected rejection, got %q", tag)
	}
}

func TestClassifyMultiEntityWithoutUmbrellaKeepsFirst(t *testing.T) {
	t.Parallel()

	cat := config.CategoryConfig{
		Key: "subsid",
		Entities: []config.EntityConfig{
			{Label: "SK브로드밴드", Tokens: []string{"SK브로드밴드"}},
			{Label: "LG헬로비전", Tokens: []string{"LG헬로비전"}},
		},
	}
	cl, err := New(cat, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tag, ok := cl.Classify(MatchText("SK브로드밴드와 LG헬로비전 제휴"))
	if !ok || tag != "SK브로드밴드" {
		t.Fatalf("got (%q, %v), want (SK브로드밴드, true)", tag, ok)
	}
}

func TestNewRejectsEmptyVocabulary(t *testing.T) {
	t.Parallel()

	if _, err := New(config.CategoryConfig{Key: "empty"}, nil); err == nil {
		t.Fatal("expected error for empty vocabulary")
	}
}
