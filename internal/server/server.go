package server

// Server объединяет HTTP сервера отдельных сущностей за одним роутером.
type Server struct {
	BidServer
	AuditServer
}

func NewServer(
	bidServer BidServer,
	auditServer AuditServer,
) Server {
	return Server{
		BidServer:   bidServer,
		AuditServer: auditServer,
	}
}
