package usecase

import (
	"context"
	"time"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// SaleScheduler recorre el catálogo cada minuto: activa las ofertas cuya
// ventana abrió y apaga las que ya vencieron. Activaciones y cierres se
// anuncian a todos los clientes conectados.
type SaleScheduler struct {
	repo     repository.ProductRepository
	products *ProductUseCase
	interval time.Duration
	log      *logger.Logger
}

// NewSaleScheduler crea el scheduler. Un intervalo <= 0 usa un minuto.
func NewSaleScheduler(repo repository.ProductRepository, products *ProductUseCase, interval time.Duration, log *logger.Logger) *SaleScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SaleScheduler{repo: repo, products: products, interval: interval, log: log}
}

// Run ejecuta el ciclo hasta que el contexto se cancele. Pensado para
// correr en su propia goroutine desde main.
func (s *SaleScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("Scheduler de ofertas iniciado")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Scheduler de ofertas detenido")
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Tick procesa una pasada del scheduler. Expuesto para poder probarlo
// sin esperar al ticker.
func (s *SaleScheduler) Tick(now time.Time) {
	started, err := s.repo.StartDueSales(now)
	if err != nil {
		s.log.Error().Err(err).Msg("No se pudieron activar ofertas programadas")
	} else {
		for _, p := range started {
			s.products.announceSale(p)
		}
		if len(started) > 0 {
			s.log.Info().Int("count", len(started)).Msg("Ofertas activadas")
		}
	}

	ended, err := s.repo.EndExpiredSales(now)
	if err != nil {
		s.log.Error().Err(err).Msg("No se pudieron apagar ofertas vencidas")
	} else {
		for _, p := range ended {
			s.products.announceSaleEnded(p)
		}
		if len(ended) > 0 {
			s.log.Info().Int("count", len(ended)).Msg("Ofertas finalizadas")
		}
	}
}
