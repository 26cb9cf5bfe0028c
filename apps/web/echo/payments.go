package echoweb

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/services/export"
)

const msgPaymentsReadFailed = "Error while reading the payments."

type paymentScreens struct {
	s *Server
}

type courseBuysView struct {
	Orders  []content.Order
	Revenue float64
}

func registerPaymentScreens(s *Server) {
	screens := paymentScreens{s: s}

	s.screen(route.ScreenCourseBuys, screens.list, nil)
	s.app.GET(pattern(route.ScreenCourseBuys)+"/export.xlsx",
		s.guard(route.ScreenCourseBuys, pattern(route.ScreenCourseBuys), screens.export))
}

// orders fetches the sorted purchases; loggedOut reports that the failure ended the session.
func (screens paymentScreens) orders(ctx echo.Context, b *browser) (orders []content.Order, ok, loggedOut bool) {
	prof, _ := b.store.Profile()
	orders, err := b.client.Payments(ctx.Request().Context(), prof.ID)
	if err != nil {
		return nil, false, screens.s.fail(ctx, b, err, msgPaymentsReadFailed)
	}
	var ord Ordering
	ord.Bind(ctx)
	content.Sort(orders, ord.Orderings, content.OrderFields)
	return orders, true, false
}

func (screens paymentScreens) list(ctx echo.Context, b *browser, d route.Decision) error {
	orders, _, loggedOut := screens.orders(ctx, b)
	if loggedOut {
		return reload(ctx)
	}
	return screens.s.render(ctx, b, http.StatusOK, d, courseBuysView{
		Orders:  orders,
		Revenue: content.Revenue(orders),
	})
}

func (screens paymentScreens) export(ctx echo.Context, b *browser, _ route.Decision) error {
	orders, ok, _ := screens.orders(ctx, b)
	if !ok {
		return ctx.Redirect(http.StatusSeeOther, pattern(route.ScreenCourseBuys))
	}

	buf := new(bytes.Buffer)
	if err := export.WriteOrders(buf, orders); err != nil {
		return errors.Wrap(err, "exporting orders")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="course-buys_%s.xlsx"`, screens.s.sessions.now().Format("20060102")))
	return ctx.Blob(http.StatusOK, export.XLSXContentType, buf.Bytes())
}
