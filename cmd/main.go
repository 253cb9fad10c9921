package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/mkolchin/shopcart/internal/app"
	"github.com/mkolchin/shopcart/internal/app/config"
	"github.com/mkolchin/shopcart/internal/domain/entity"
	"github.com/mkolchin/shopcart/internal/service"
)

const usage = `usage: shopcart <command> [args]

commands:
  add <product-id>            add one unit of a product to the cart
  remove <product-id>         remove a product from the cart entirely
  set <product-id> <amount>   set the absolute quantity of a product
  show                        print the current cart
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.MustLoad()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	ctx := context.Background()
	defer application.Close(ctx)

	if err := run(ctx, application.Cart, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cart service.CartService, command string, args []string) error {
	switch command {
	case "add":
		id, err := parseID(args, 1)
		if err != nil {
			return err
		}
		printOutcome(cart.Add(ctx, id))
	case "remove":
		id, err := parseID(args, 1)
		if err != nil {
			return err
		}
		printOutcome(cart.Remove(ctx, id))
	case "set":
		id, err := parseID(args, 2)
		if err != nil {
			return err
		}
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		printOutcome(cart.SetAmount(ctx, id, amount))
	case "show":
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	printSnapshot(cart.Snapshot())
	return nil
}

func parseID(args []string, want int) (int64, error) {
	if len(args) < want {
		return 0, fmt.Errorf("missing argument\n%s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", args[0])
	}
	return id, nil
}

func printOutcome(outcome service.Outcome) {
	if outcome.Reason != "" {
		fmt.Printf("%s: %s\n", outcome.Status, outcome.Reason)
	} else {
		fmt.Println(outcome.Status)
	}
}

func printSnapshot(items []entity.LineItem) {
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	var total float64
	for _, item := range items {
		subtotal := item.Price * float64(item.Amount)
		total += subtotal
		fmt.Printf("%6d  %-30s  %3d x %8.2f = %10.2f\n", item.ID, item.Title, item.Amount, item.Price, subtotal)
	}
	fmt.Printf("total: %.2f\n", total)
}
