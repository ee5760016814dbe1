package handler

import (
	"github.com/erp/printagent/internal/interfaces/http/router"
)

// PrintRoutes creates the route group for print endpoints
func PrintRoutes(handler *PrintHandler) *router.DomainGroup {
	group := router.NewDomainGroup("print", "/print")

	group.GET("/printers", handler.ListPrinters)
	group.POST("/ticket", handler.PrintTicket)
	group.POST("/ticket-file", handler.PrintTicketFile)
	group.POST("/test", handler.PrintTest)

	// Renders that never reach a printer
	group.POST("/preview", handler.Preview)
	group.POST("/pdf", handler.RenderPDF)

	group.GET("/jobs", handler.ListJobs)

	return group
}

// SystemRoutes creates the route group for system endpoints.
// updates may be nil when no manifest is configured.
func SystemRoutes(system *SystemHandler, updates *UpdateHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")

	group.GET("/version", system.GetVersion)
	group.GET("/ping", system.Ping)

	if updates != nil {
		group.GET("/update", updates.CheckUpdate)
		group.POST("/update/install", updates.InstallUpdate)
	}

	return group
}
