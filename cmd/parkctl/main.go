// parkctl drives a parking facility from the command line, against the
// same JSON snapshot file the server uses. Every command loads the
// snapshot, applies one operation and writes the snapshot back.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/config"
	"github.com/toruke/2tm1-ParkEase/internal/lot"
	"github.com/toruke/2tm1-ParkEase/internal/notify"
	"github.com/toruke/2tm1-ParkEase/internal/report"
	"github.com/toruke/2tm1-ParkEase/internal/store"
	"github.com/toruke/2tm1-ParkEase/internal/tariff"
)

const usage = `Usage: parkctl <command> [arguments]

Commands:
  checkin <plate>            let a vehicle in
  checkout <plate>           let a vehicle out and print the receipt
  spaces                     print available spaces
  register <plate>           register a vehicle without checking it in
  subscribe <plate> <months> sell a subscription
  extend <plate> <months>    extend an existing subscription
  sub <plate>                show a vehicle's subscription
  report                     print peak days and hours
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	app, err := newApp(cfg)
	if err != nil {
		fatal(err)
	}

	if err := app.run(flag.Args()); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "parkctl:", err)
	os.Exit(1)
}

type app struct {
	cfg *config.Config
	st  store.Store
	l   *lot.Lot
}

func newApp(cfg *config.Config) (*app, error) {
	calc := tariff.NewCalculator(tariff.Config{
		PerHour:  cfg.PricePerHour,
		PerDay:   cfg.PricePerDay,
		PerMonth: cfg.PricePerMonth,
	})
	st := store.NewFileStore(cfg.DataFile)

	rec, err := st.Load(context.Background())
	if err != nil {
		return nil, err
	}

	var l *lot.Lot
	if rec != nil {
		l, err = store.RestoreLot(rec, calc, notify.LogNotifier{})
	} else {
		l, err = lot.New(cfg.Floors, cfg.SpacesPerFloor, calc, notify.LogNotifier{})
	}
	if err != nil {
		return nil, err
	}
	l.SetAlertThreshold(cfg.AlertThreshold)

	return &app{cfg: cfg, st: st, l: l}, nil
}

func (a *app) save() error {
	return a.st.Save(context.Background(), store.Snapshot(a.l))
}

func (a *app) run(args []string) error {
	cmd, args := args[0], args[1:]

	switch cmd {
	case "checkin":
		return a.checkIn(args)
	case "checkout":
		return a.checkOut(args)
	case "spaces":
		fmt.Printf("%d of %d spaces available\n", a.l.AvailableSpaces(), a.l.TotalSpaces())
		return nil
	case "register":
		return a.register(args)
	case "subscribe":
		return a.subscribe(args)
	case "extend":
		return a.extend(args)
	case "sub":
		return a.showSubscription(args)
	case "report":
		a.report()
		return nil
	default:
		flag.Usage()
		os.Exit(2)
		return nil
	}
}

func plateArg(args []string) string {
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}
	return args[0]
}

func plateMonthsArgs(args []string) (string, int, error) {
	if len(args) != 2 {
		flag.Usage()
		os.Exit(2)
	}
	months, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid month count %q", args[1])
	}
	return args[0], months, nil
}

func (a *app) checkIn(args []string) error {
	plate := plateArg(args)

	if err := a.l.CheckIn(context.Background(), plate, time.Now()); err != nil {
		fmt.Println(err)
		return nil
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("%s checked in, %d spaces left\n", plate, a.l.AvailableSpaces())
	return nil
}

func (a *app) checkOut(args []string) error {
	plate := plateArg(args)

	r, err := a.l.CheckOut(plate, time.Now())
	if err != nil {
		fmt.Println(err)
		return nil
	}
	if err := a.save(); err != nil {
		return err
	}

	fmt.Printf("%s checked out after %s\n", r.Plate, r.Duration.Round(time.Second))
	fmt.Printf("amount due: %d\n", r.Amount)
	if r.Sub != nil {
		fmt.Printf("subscription ends on %s\n", r.Sub.End().Format("02/01/2006"))
	}
	return nil
}

func (a *app) register(args []string) error {
	plate := plateArg(args)

	if _, err := a.l.RegisterVehicle(plate); err != nil {
		fmt.Println(err)
		return nil
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("%s registered\n", plate)
	return nil
}

func (a *app) subscribe(args []string) error {
	plate, months, err := plateMonthsArgs(args)
	if err != nil {
		return err
	}

	sub, price, err := a.l.Subscribe(plate, months, time.Now())
	if err != nil {
		fmt.Println(err)
		return nil
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("%s subscribed for %d month(s), price %d, ends on %s\n",
		plate, months, price, sub.End().Format("02/01/2006"))
	return nil
}

func (a *app) extend(args []string) error {
	plate, months, err := plateMonthsArgs(args)
	if err != nil {
		return err
	}

	price, err := a.l.ExtendSubscription(plate, months)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	if err := a.save(); err != nil {
		return err
	}
	sub, err := a.l.Subscription(plate)
	if err != nil {
		return err
	}
	fmt.Printf("%s extended by %d month(s), price %d, ends on %s\n",
		plate, months, price, sub.End().Format("02/01/2006"))
	return nil
}

func (a *app) showSubscription(args []string) error {
	plate := plateArg(args)

	sub, err := a.l.Subscription(plate)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	status := "expired"
	if sub.IsActive(time.Now()) {
		status = "active"
	}
	fmt.Printf("%s: %s, %d month(s) from %s to %s\n",
		plate, status, sub.Months,
		sub.Start.Format("02/01/2006"), sub.End().Format("02/01/2006"))
	return nil
}

func (a *app) report() {
	r := report.New()
	r.Collect(a.l.AllVehicles())

	days, dayCount := r.PeakDays()
	hours, hourCount := r.PeakHours()
	if dayCount == 0 {
		fmt.Println("no tickets recorded yet")
		return
	}

	fmt.Printf("busiest day(s): %v (%d entries)\n", days, dayCount)
	fmt.Printf("busiest hour(s): %v (%d entries)\n", hours, hourCount)
}
