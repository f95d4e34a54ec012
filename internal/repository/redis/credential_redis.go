package redis

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/SimpnicServerTeam/scs-credstore/internal/models"
	"github.com/SimpnicServerTeam/scs-credstore/internal/repository"
	"github.com/redis/go-redis/v9"
)

// RedisCredentialRepository implements CredentialRepository using Redis.
type RedisCredentialRepository struct {
	client *redis.Client
}

// Set holding every registered username, so listing does not need SCAN.
const credentialIndexKey = "credentials"

// Helper to construct credential key
func makeCredentialKey(username string) string {
	return fmt.Sprintf("credential:%s", username)
}

func NewRedisCredentialRepository(client *redis.Client) repository.CredentialRepository {
	return &RedisCredentialRepository{
		client: client,
	}
}

// SaveCredential stores the credential and adds the username to the index.
func (r *RedisCredentialRepository) SaveCredential(ctx context.Context, username, digestHex string) error {
	jsonData, err := json.Marshal(models.Credential{Username: username, Digest: digestHex})
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, makeCredentialKey(username), jsonData, 0)
	pipe.SAdd(ctx, credentialIndexKey, username)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute credential store pipeline: %w", err)
	}
	return nil
}

// DeleteCredential removes the credential and its index entry.
func (r *RedisCredentialRepository) DeleteCredential(ctx context.Context, username string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, makeCredentialKey(username))
	pipe.SRem(ctx, credentialIndexKey, username)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute credential delete pipeline: %w", err)
	}
	return nil
}

// ListCredentials returns every credential reachable through the index.
func (r *RedisCredentialRepository) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	usernames, err := r.client.SMembers(ctx, credentialIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SMEMBERS failed: %w", err)
	}

	creds := make([]models.Credential, 0, len(usernames))
	for _, username := range usernames {
		jsonData, err := r.client.Get(ctx, makeCredentialKey(username)).Bytes()
		if err == redis.Nil {
			// The index can briefly outlive the value under a concurrent
			// delete; skip the stale entry.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis GET failed: %w", err)
		}

		var c models.Credential
		if err := json.Unmarshal(jsonData, &c); err != nil {
			return nil, fmt.Errorf("json unmarshal failed: %w", err)
		}
		creds = append(creds, c)
	}
	return creds, nil
}
