package router

import (
	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/handler"
	"bookkeeping-web/internal/middleware"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize services
	logger := utils.GetLogger()
	cache := service.NewBalanceCache(redis, cfg.BalanceCacheTTL)
	authService := service.NewAuthService(userRepo, cfg)
	coaService := service.NewChartOfAccountsService(accountRepo, journalRepo, asynqClient, logger)
	postingService := service.NewPostingService(journalRepo, coaService, cache, logger)
	sequenceService := service.NewSequenceService(counterRepo, cfg.CounterMaxAttempts)
	balanceService := service.NewBalanceService(journalRepo, cache, logger)
	ledgerService := service.NewLedgerService(ledgerRepo, coaService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountRepo, coaService, cfg)
	journalHandler := handler.NewJournalHandler(postingService, sequenceService)
	balanceHandler := handler.NewBalanceHandler(balanceService, cfg)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	counterHandler := handler.NewCounterHandler(sequenceService)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Auth routes
	protected.Get("/auth/me", authHandler.Me)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.Get("/", accountHandler.GetAccounts)
	accounts.Get("/hierarchy", accountHandler.GetHierarchy)
	accounts.Get("/export", accountHandler.ExportAccounts)
	accounts.Get("/:id", accountHandler.GetAccount)
	accounts.Post("/", accountHandler.CreateAccount)
	accounts.Put("/:id/rename", accountHandler.RenameAccount)
	accounts.Put("/:id/retire", accountHandler.RetireAccount)
	accounts.Delete("/:id", accountHandler.DeleteAccount)

	// Journal routes
	journals := protected.Group("/journals")
	journals.Get("/", journalHandler.GetJournals)
	journals.Get("/:id", journalHandler.GetJournal)
	journals.Post("/", journalHandler.PostJournal)
	journals.Post("/:id/void", journalHandler.VoidJournal)

	// Balance and report routes
	balances := protected.Group("/balances")
	balances.Get("/", balanceHandler.GetBalances)

	reports := protected.Group("/reports")
	reports.Get("/trial-balance", balanceHandler.GetTrialBalance)
	reports.Get("/trial-balance/export", balanceHandler.ExportTrialBalanceExcel)
	reports.Get("/trial-balance/export.csv", balanceHandler.ExportTrialBalanceCSV)

	// Ledger group routes
	groups := protected.Group("/ledger-groups")
	groups.Get("/", ledgerHandler.GetGroups)
	groups.Post("/", ledgerHandler.CreateGroup)
	groups.Put("/:id", ledgerHandler.UpdateGroup)
	groups.Delete("/:id", ledgerHandler.DeleteGroup)

	// Ledger routes
	ledgers := protected.Group("/ledgers")
	ledgers.Get("/", ledgerHandler.GetLedgers)
	ledgers.Get("/:id", ledgerHandler.GetLedger)
	ledgers.Post("/", ledgerHandler.CreateLedger)
	ledgers.Put("/:id", ledgerHandler.UpdateLedger)
	ledgers.Delete("/:id", ledgerHandler.DeleteLedger)
	ledgers.Post("/:id/ensure-account", ledgerHandler.EnsureAccount)

	// Counter routes
	counters := protected.Group("/counters")
	counters.Get("/:name/peek", counterHandler.PeekNumber)
	counters.Post("/:name/next", counterHandler.NextNumber)
}
