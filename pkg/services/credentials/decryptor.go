// Package credentials decrypts credential blobs submitted in place of a
// plaintext access key pair. Decryption failure is fatal for the request;
// the scan never starts with credentials we could not recover.
package credentials

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
)

type KMSAPI interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput,
		optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

type Decryptor struct {
	kms KMSAPI
}

func NewDecryptor(api KMSAPI) *Decryptor {
	return &Decryptor{kms: api}
}

// NewKMSDecryptor builds a Decryptor backed by the service's own AWS
// identity (ambient config), not the credentials being scanned.
func NewKMSDecryptor(ctx context.Context, region string) (*Decryptor, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &Decryptor{kms: kms.NewFromConfig(cfg)}, nil
}

type credentialPayload struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
}

// Decrypt turns a base64 ciphertext blob and key identifier into the
// credential pair it protects.
func (d *Decryptor) Decrypt(ctx context.Context, blob, keyID string) (domain.Credentials, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("invalid credential ciphertext: %w", err)
	}

	out, err := d.kms.Decrypt(ctx, &kms.DecryptInput{
		CiphertextBlob: ciphertext,
		KeyId:          aws.String(keyID),
	})
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var payload credentialPayload
	if err := json.Unmarshal(out.Plaintext, &payload); err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to decode decrypted credentials: %w", err)
	}
	if payload.AccessKeyID == "" || payload.SecretAccessKey == "" {
		return domain.Credentials{}, fmt.Errorf("decrypted credentials are incomplete")
	}

	return domain.Credentials{
		AccessKeyID:     payload.AccessKeyID,
		SecretAccessKey: payload.SecretAccessKey,
	}, nil
}
