package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/services/export"
)

var nowFunc = time.Now // mockable

func (cli *commandLine) exportOrders(email, out, ordering string) error {
	prof, err := cli.signIn(email)
	if err != nil {
		return err
	}
	orders, err := cli.client.Payments(context.Background(), prof.ID)
	if err != nil {
		return errors.Wrap(err, "reading the payments")
	}
	content.Sort(orders, core.ParseOrderings(ordering), content.OrderFields)

	if out == "" {
		out = fmt.Sprintf("course-buys_%s.xlsx", nowFunc().Format("20060102"))
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = export.WriteOrders(f, orders); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "exporting orders")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "%d orders (revenue %.2f) written to %s\n", len(orders), content.Revenue(orders), out)
	return nil
}
