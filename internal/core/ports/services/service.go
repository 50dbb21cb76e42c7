package services

// ServiceContainer holds all service facades needed by the handlers.
type ServiceContainer struct {
	Unit         UnitSvcFacade
	Customer     CustomerSvcFacade
	Booking      BookingSvcFacade
	Ledger       LedgerReaderSvcFacade
	Settlement   SettlementSvcFacade
	ExtraPayment ExtraPaymentSvcFacade
	Events       LifecycleEventPublisher
}
