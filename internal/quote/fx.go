package quote

import (
	"github.com/smallbiznis/enrolla/internal/catalog"
	quotedomain "github.com/smallbiznis/enrolla/internal/quote/domain"
	"github.com/smallbiznis/enrolla/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote.service",
	fx.Provide(
		service.NewService,
		func(h *catalog.Holder) quotedomain.ProductSource { return h },
	),
)
