package worker

import (
	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/service"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, cfg *config.Config) {
	consistencyHandler := NewConsistencyTaskHandler(db, cfg)
	mux.HandleFunc(service.TaskCheckConsistency, consistencyHandler.Handle)
}
