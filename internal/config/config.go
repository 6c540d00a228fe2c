package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Config carrega toda a configuração do serviço a partir do ambiente.
type Config struct {
	Porta string `env:"PORT,default=8080"`

	DBHost           string `env:"DB_HOST,default=localhost"`
	DBPorta          uint   `env:"DB_PORT,default=5432"`
	DBUsuario        string `env:"DB_USER,default=postgres"`
	DBSenha          string `env:"DB_PASSWORD,default=postgres"`
	DBNome           string `env:"DB_NAME,default=crm"`
	DBSSLDesabilitar bool   `env:"DB_SSL_MODE_DISABLE,default=true"`

	JWTSecret string `env:"JWT_SECRET,required"`

	// "local" ou "s3"
	ArmazenamentoDriver string `env:"STORAGE_DRIVER,default=local"`
	ArmazenamentoDir    string `env:"STORAGE_DIR,default=./uploads"`
	S3Bucket            string `env:"S3_BUCKET"`
	S3Regiao            string `env:"S3_REGION,default=sa-east-1"`
	S3AccessID          string `env:"S3_ACCESS_ID"`
	S3AccessKey         string `env:"S3_ACCESS_KEY"`

	// limite de upload de contrato em bytes (10 MB)
	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES,default=10485760"`
}

// Carregar decodifica a configuração do ambiente.
func Carregar() (Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// DSN monta a string de conexão do Postgres.
func (c Config) DSN() string {
	sslMode := ""
	if c.DBSSLDesabilitar {
		sslMode = " sslmode=disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		c.DBHost, c.DBUsuario, c.DBSenha, c.DBNome, c.DBPorta, sslMode)
}
