package cmd

import (
	"log/slog"
	"os"

	"fooddelivery/internal/adapters/out/authsvc"
	"fooddelivery/internal/adapters/out/notifysvc"
	"fooddelivery/internal/adapters/out/payment"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/shopsvc"
	"fooddelivery/internal/core/application/fanout"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	shops   *shopsvc.Client
	auth    *authsvc.Client
	notify  *notifysvc.Client
	payment *payment.SignatureVerifier
	fanout  *fanout.Service
	logger  *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, notifier ports.Notifier) CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		shops:      shopsvc.NewClient(config.ShopServiceURL, nil),
		auth:       authsvc.NewClient(config.AuthServiceURL, nil),
		notify:     notifysvc.NewClient(config.NotifyServiceURL, nil),
		payment:    payment.NewSignatureVerifier(config.PaymentSecret),
		fanout:     fanout.NewService(notifier, logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.shops, c.payment, c.fanout)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(
		f, c.auth, c.shops, c.auth, c.notify, c.fanout,
		c.config.BroadcastRadiusMeters, c.config.FallbackRadiusMeters, c.logger)
}

func (c *CompositionRoot) CreateAcceptAssignmentCommandHandler() commands.AcceptAssignmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptAssignmentCommandHandler(f, c.fanout)
}

func (c *CompositionRoot) CreateRequestDeliveryCodeCommandHandler() commands.RequestDeliveryCodeCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestDeliveryCodeCommandHandler(f, c.auth, c.auth, c.notify, c.logger)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmDeliveryCommandHandler(f, c.auth, c.fanout)
}

func (c *CompositionRoot) CreateRateOrderCommandHandler() commands.RateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRateOrderCommandHandler(f, c.shops, c.fanout, c.logger)
}

func (c *CompositionRoot) CreateRefreshBroadcastsCommandHandler() commands.RefreshBroadcastsCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRefreshBroadcastsCommandHandler(
		f, c.auth, c.fanout,
		c.config.BroadcastRadiusMeters, c.config.FallbackRadiusMeters,
		c.config.BroadcastStaleAfter, c.logger)
}

func (c *CompositionRoot) CreateGetUserOrdersQueryHandler() queries.GetUserOrdersQueryHandler {
	return queries.NewGetUserOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOwnerOrdersQueryHandler() queries.GetOwnerOrdersQueryHandler {
	return queries.NewGetOwnerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierAssignmentsQueryHandler() queries.GetCourierAssignmentsQueryHandler {
	return queries.NewGetCourierAssignmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCurrentAssignmentQueryHandler() queries.GetCurrentAssignmentQueryHandler {
	return queries.NewGetCurrentAssignmentQueryHandler(c.gormDB, c.auth)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
