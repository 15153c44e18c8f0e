// Package scheduler tareas programadas del almacén.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

const lowStockReportLimit = 50

// Scheduler corre el chequeo diario de stock bajo con robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	analytics repository.AnalyticsRepository
	log       *logger.Logger
}

// New construye el scheduler. spec es una expresión cron estándar de 5 campos
// (min, hora, día, mes, día-semana), p. ej. "0 7 * * *" para las 07:00.
func New(spec string, analytics repository.AnalyticsRepository, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		spec:      spec,
		analytics: analytics,
		log:       log,
	}
}

// Start registra y arranca las tareas. Devuelve error si la expresión cron es inválida.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.reportLowStock); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler iniciado")
	return nil
}

// Stop detiene el scheduler y espera a que terminen las tareas en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler detenido")
}

// reportLowStock escribe en el log los artículos en o por debajo del mínimo.
// El log estructurado es el canal de aviso; un webhook o email puede colgarse
// de él sin tocar este código.
func (s *Scheduler) reportLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	items, err := s.analytics.ListLowStock(ctx, lowStockReportLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("chequeo de stock bajo fallido")
		return
	}
	if len(items) == 0 {
		s.log.Info().Msg("chequeo de stock bajo: sin artículos críticos")
		return
	}
	for _, it := range items {
		s.log.Warn().
			Str("sku", it.SKU).
			Str("name", it.Name).
			Str("stock", it.Stock.String()).
			Str("min_stock", it.MinStock.String()).
			Msg("artículo con stock bajo")
	}
}
