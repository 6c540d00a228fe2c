package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/imoblink/api-imobiliaria/internal/agendamento"
	"github.com/imoblink/api-imobiliaria/internal/armazenamento"
	"github.com/imoblink/api-imobiliaria/internal/auth"
	"github.com/imoblink/api-imobiliaria/internal/cliente"
	"github.com/imoblink/api-imobiliaria/internal/config"
	"github.com/imoblink/api-imobiliaria/internal/consultor"
	"github.com/imoblink/api-imobiliaria/internal/dashboard"
	"github.com/imoblink/api-imobiliaria/internal/fechamento"
	"github.com/imoblink/api-imobiliaria/internal/imobiliaria"
)

func main() {
	// .env é opcional; em produção a configuração vem do ambiente
	_ = godotenv.Load()

	cfg, err := config.Carregar()
	if err != nil {
		logrus.Fatal(err)
	}
	auth.ConfigurarSegredo(cfg.JWTSecret)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		logrus.Fatal("erro ao conectar no banco: ", err)
	}

	// AutoMigrate para todos os modelos
	if err := db.AutoMigrate(
		&consultor.Consultor{},
		&imobiliaria.Imobiliaria{},
		&cliente.Cliente{},
		&agendamento.Agendamento{},
		&fechamento.Fechamento{},
	); err != nil {
		logrus.Fatal("erro no AutoMigrate: ", err)
	}

	var driver armazenamento.Driver
	switch cfg.ArmazenamentoDriver {
	case "s3":
		driver, err = armazenamento.NovoS3(armazenamento.ConfiguracaoS3{
			Bucket:    cfg.S3Bucket,
			Regiao:    cfg.S3Regiao,
			AccessID:  cfg.S3AccessID,
			AccessKey: cfg.S3AccessKey,
		})
		if err != nil {
			logrus.Fatal("erro ao configurar S3: ", err)
		}
	default:
		driver = armazenamento.NovoLocal(cfg.ArmazenamentoDir)
	}

	// Handlers
	consultorHandler := consultor.NewHandler(db)
	imobiliariaHandler := imobiliaria.NewHandler(db)
	clienteHandler := cliente.NewHandler(db)
	agendamentoHandler := agendamento.NewHandler(db)
	fechamentoHandler := fechamento.NewHandler(db, driver, cfg.UploadMaxBytes)
	dashboardHandler := dashboard.NewHandler(db)

	// Router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Rotas públicas
	api.HandleFunc("/login", consultorHandler.Login).Methods("POST")
	api.HandleFunc("/consultores/cadastro", consultorHandler.Cadastro).Methods("POST")
	api.HandleFunc("/leads/cadastro", clienteHandler.CadastroLead).Methods("POST")

	// Rotas autenticadas
	priv := api.NewRoute().Subrouter()
	priv.Use(auth.MiddlewareAutenticacao)

	priv.HandleFunc("/verify-token", auth.VerificarToken).Methods("GET")
	priv.HandleFunc("/logout", auth.Logout).Methods("POST")

	// Rotas de imobiliárias
	priv.HandleFunc("/imobiliarias", imobiliariaHandler.Listar).Methods("GET")
	priv.Handle("/imobiliarias", auth.RequireAdmin(http.HandlerFunc(imobiliariaHandler.Criar))).Methods("POST")
	priv.HandleFunc("/imobiliarias/{id}", imobiliariaHandler.BuscarPorID).Methods("GET")
	priv.Handle("/imobiliarias/{id}", auth.RequireAdmin(http.HandlerFunc(imobiliariaHandler.Atualizar))).Methods("PUT")
	priv.HandleFunc("/cidades", imobiliariaHandler.Cidades).Methods("GET")
	priv.HandleFunc("/estados", imobiliariaHandler.Estados).Methods("GET")

	// Rotas de consultores
	priv.HandleFunc("/consultores", consultorHandler.Listar).Methods("GET")
	priv.Handle("/consultores", auth.RequireAdmin(http.HandlerFunc(consultorHandler.Criar))).Methods("POST")
	priv.Handle("/consultores/{id}", auth.RequireProprioConsultor(http.HandlerFunc(consultorHandler.BuscarPorID))).Methods("GET")
	priv.Handle("/consultores/{id}", auth.RequireProprioConsultor(http.HandlerFunc(consultorHandler.Atualizar))).Methods("PUT")

	// Rotas de clientes e pool de leads
	priv.HandleFunc("/clientes", clienteHandler.Listar).Methods("GET")
	priv.HandleFunc("/clientes", clienteHandler.Criar).Methods("POST")
	priv.HandleFunc("/clientes/{id}", clienteHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/clientes/{id}", clienteHandler.Atualizar).Methods("PUT")
	priv.HandleFunc("/clientes/{id}/status", clienteHandler.AtualizarStatus).Methods("PUT")
	priv.HandleFunc("/novos-leads", clienteHandler.NovosLeads).Methods("GET")
	priv.HandleFunc("/novos-leads/{id}/pegar", clienteHandler.PegarLead).Methods("PUT")

	// Rotas de agendamentos
	priv.HandleFunc("/agendamentos", agendamentoHandler.Listar).Methods("GET")
	priv.HandleFunc("/agendamentos", agendamentoHandler.Criar).Methods("POST")
	priv.HandleFunc("/agendamentos/{id}", agendamentoHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/agendamentos/{id}", agendamentoHandler.Atualizar).Methods("PUT")
	priv.Handle("/agendamentos/{id}", auth.RequireAdmin(http.HandlerFunc(agendamentoHandler.Deletar))).Methods("DELETE")
	priv.HandleFunc("/agendamentos/{id}/status", agendamentoHandler.AtualizarStatus).Methods("PUT")
	priv.HandleFunc("/agendamentos/{id}/lembrado", agendamentoHandler.MarcarLembrado).Methods("PUT")

	// Rotas de fechamentos
	priv.HandleFunc("/fechamentos", fechamentoHandler.Listar).Methods("GET")
	priv.HandleFunc("/fechamentos", fechamentoHandler.Criar).Methods("POST")
	priv.HandleFunc("/fechamentos/{id}", fechamentoHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/fechamentos/{id}", fechamentoHandler.Atualizar).Methods("PUT")
	priv.HandleFunc("/fechamentos/{id}", fechamentoHandler.Deletar).Methods("DELETE")
	priv.HandleFunc("/fechamentos/{id}/contrato", fechamentoHandler.AnexarContrato).Methods("POST")
	priv.HandleFunc("/fechamentos/{id}/contrato", fechamentoHandler.BaixarContrato).Methods("GET")
	priv.Handle("/fechamentos/{id}/aprovar", auth.RequireAdmin(http.HandlerFunc(fechamentoHandler.Aprovar))).Methods("PUT")
	priv.Handle("/fechamentos/{id}/reprovar", auth.RequireAdmin(http.HandlerFunc(fechamentoHandler.Reprovar))).Methods("PUT")

	// Dashboard
	priv.HandleFunc("/dashboard", dashboardHandler.Obter).Methods("GET")

	handler := cors.AllowAll().Handler(r)

	logrus.WithField("porta", cfg.Porta).Info("servidor no ar")
	logrus.Fatal(http.ListenAndServe(":"+cfg.Porta, handler))
}
