package audiostore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

// ValkeyStorage keeps artifacts as expiring keys so replicas behind a load
// balancer can serve each other's audio.
type ValkeyStorage struct {
	client valkey.Client
	prefix string
}

type valkeyArtifact struct {
	ContentType string    `json:"contentType"`
	Data        []byte    `json:"data"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// NewValkeyStorage constructs the store.
func NewValkeyStorage(client valkey.Client, prefix string) *ValkeyStorage {
	if prefix == "" {
		prefix = "nyayasetu"
	}
	return &ValkeyStorage{client: client, prefix: prefix}
}

func (s *ValkeyStorage) Put(ctx context.Context, artifact speech.Artifact) error {
	payload, err := json.Marshal(valkeyArtifact{
		ContentType: artifact.ContentType,
		Data:        artifact.Data,
		ExpiresAt:   artifact.ExpiresAt,
	})
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(artifact.ID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl := time.Until(artifact.ExpiresAt); !artifact.ExpiresAt.IsZero() {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStorage) Get(ctx context.Context, id string) (speech.Artifact, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return speech.Artifact{}, speech.ErrArtifactNotFound
		}
		return speech.Artifact{}, err
	}
	var stored valkeyArtifact
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return speech.Artifact{}, err
	}
	return speech.Artifact{ID: id, ContentType: stored.ContentType, Data: stored.Data, ExpiresAt: stored.ExpiresAt}, nil
}

func (s *ValkeyStorage) key(id string) string {
	return fmt.Sprintf("%s:audio:%s", s.prefix, id)
}

var _ speech.AudioStorage = (*ValkeyStorage)(nil)
