package armazenamento

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// S3 é a implementação do Driver sobre um bucket AWS S3.
type S3 struct {
	config aws.Config
	bucket string
}

// ConfiguracaoS3 reúne os parâmetros do bucket.
type ConfiguracaoS3 struct {
	Bucket    string
	Regiao    string
	AccessID  string
	AccessKey string
}

// NovoS3 retorna um driver S3 configurado.
func NovoS3(cfg ConfiguracaoS3) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket S3 não informado")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.TODO(),
		awsconfig.WithRegion(cfg.Regiao),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessID, cfg.AccessKey, "")),
	)
	if err != nil {
		return nil, err
	}
	logrus.WithField("bucket", cfg.Bucket).Debug("armazenamento S3 habilitado")
	return &S3{config: awsCfg, bucket: cfg.Bucket}, nil
}

// Salvar envia o blob para o bucket.
func (s *S3) Salvar(ctx context.Context, chave string, dados []byte) error {
	client := s3.NewFromConfig(s.config)
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(chave),
		Body:   bytes.NewReader(dados),
	})
	return err
}

// Carregar baixa o blob do bucket.
func (s *S3) Carregar(ctx context.Context, chave string) ([]byte, error) {
	client := s3.NewFromConfig(s.config)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(chave),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Remover apaga o blob do bucket. Quem decide se a falha é fatal ou
// melhor esforço é o chamador, que também registra o log.
func (s *S3) Remover(ctx context.Context, chave string) error {
	client := s3.NewFromConfig(s.config)
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(chave),
	})
	return err
}
