package faqstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
)

func TestDisplayWriteFailed(t *testing.T) {
	require.False(t, displayWriteFailed(nil))
	require.False(t, displayWriteFailed(valkey.Nil))
	require.True(t, displayWriteFailed(errors.New("connection reset by peer")))
}

func TestValkeyStoreKeys(t *testing.T) {
	store := NewValkeyStore(nil, "", nil)
	require.Equal(t, "nyayasetu:trending", store.trendingKey(""))
	require.Equal(t, "nyayasetu:trending:hindi", store.trendingKey(faq.LanguageHindi))
	require.Equal(t, "nyayasetu:display:file fir", store.displayKey("file fir"))
}
