package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Provider архив печатных форм офферов в объектном хранилище
type Provider interface {
	UploadOfferLetter(ctx context.Context, offerID string, body []byte) (objectKey string, err error)
	GetOfferLetter(ctx context.Context, offerID string) ([]byte, error)
}

var Instance Provider

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func (i impl) UploadOfferLetter(ctx context.Context, offerID string, body []byte) (string, error) {
	key := offerLetterKey(offerID)
	_, err := i.s3client.PutObject(ctx, i.bucketName, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}
	return key, nil
}

func (i impl) GetOfferLetter(ctx context.Context, offerID string) ([]byte, error) {
	obj, err := i.s3client.GetObject(ctx, i.bucketName, offerLetterKey(offerID), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения файла из хранилища")
	}
	defer obj.Close()
	body, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return body, nil
}

func offerLetterKey(offerID string) string {
	return fmt.Sprintf("offers/%s/offer-letter.pdf", offerID)
}

// NewInstance без клиента S3 архив отключен и Instance остается nil
func NewInstance(s3client *minio.Client, bucketName string) {
	if s3client == nil {
		Instance = nil
		return
	}
	Instance = &impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
}
