// cmd/dl485ctl/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tamzrod/dl485-dimmer/internal/config"
	"github.com/tamzrod/dl485-dimmer/internal/device"
	"github.com/tamzrod/dl485-dimmer/internal/logging"
	"github.com/tamzrod/dl485-dimmer/internal/regmap"
)

const usage = `usage: dl485ctl [flags] <command> [args]

commands:
  read <ref>              read a register (symbol or number)
  write <ref> <value>     write a register (--decimals to scale)
  reboot                  restart the device
  setup-io <io> <type>    configure an IO (DIGITAL_OUT, DS18B20, ...)
  vin                     supply voltage
  temp                    microcontroller temperature
  probe <io>              DS18B20 temperature on an IO
  backup <ch>             save a channel EEPROM block (--out file)
  restore <file>          write a saved block back
  reset <ch>              zero a channel EEPROM block
  watch                   poll configured reads on every device
  symbols                 list register symbols

flags:
`

type options struct {
	configPath string
	deviceName string
	port       string
	baud       int
	node       uint8
	debug      bool
	decimals   uint8
	out        string
	retries    int
	pause      time.Duration
}

func main() {
	var o options

	flag.StringVarP(&o.configPath, "config", "c", "", "Configuration file path.")
	flag.StringVarP(&o.deviceName, "device", "d", "", "Device name from config (default: first).")
	flag.StringVarP(&o.port, "port", "p", "/dev/ttyUSB0", "Serial port when no config file is given.")
	flag.IntVarP(&o.baud, "baud", "b", config.DefaultBaudRate, "Baud rate when no config file is given.")
	flag.Uint8VarP(&o.node, "node", "n", 11, "Node id when no config file is given.")
	flag.BoolVarP(&o.debug, "debug", "v", false, "Log every transaction.")
	flag.Uint8Var(&o.decimals, "decimals", 0, "Decimal point for write.")
	flag.StringVarP(&o.out, "out", "o", "", "Backup output file (default ch<N>-<node>.yaml).")
	flag.IntVar(&o.retries, "retries", 1, "Attempts per transaction on transport failure.")
	flag.DurationVar(&o.pause, "retry-pause", 200*time.Millisecond, "Pause between attempts.")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, o, log, flag.Args()); err != nil {
		log.Error("command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(o options) (*config.Config, error) {
	var cfg *config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = &config.Config{
			Devices: []config.DeviceConfig{{
				Name:     "default",
				Port:     o.port,
				BaudRate: o.baud,
				NodeID:   o.node,
			}},
		}
	}

	if o.debug {
		for i := range cfg.Devices {
			cfg.Devices[i].Debug = true
		}
		cfg.Log.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

func run(cfg *config.Config, o options, log *zap.Logger, args []string) error {
	cmd, args := args[0], args[1:]

	switch cmd {
	case "symbols":
		printSymbols()
		return nil
	case "watch":
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return watch(ctx, cfg, log)
	}

	d, err := cfg.Device(o.deviceName)
	if err != nil {
		return err
	}

	sessions, closeAll, err := openSessions([]config.DeviceConfig{d}, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeAll() }()

	ctrl := sessions[0].ctrl

	// Retry is a caller policy; the controller itself never retries.
	var op device.Operator = ctrl
	if o.retries > 1 {
		op = device.Retrying{Op: ctrl, Attempts: o.retries, Pause: o.pause}
	}

	switch cmd {
	case "read":
		if err := needArgs(args, 1); err != nil {
			return err
		}
		addr, err := regmap.Parse(args[0])
		if err != nil {
			return err
		}
		v, err := op.ReadAddress(addr)
		if err != nil {
			return err
		}
		fmt.Printf("%d\t%d\t0x%04X\n", addr, v, v)
		return nil

	case "write":
		if err := needArgs(args, 2); err != nil {
			return err
		}
		addr, err := regmap.Parse(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("value %q: %w", args[1], err)
		}
		return op.WriteAddress(addr, value, o.decimals)

	case "reboot":
		return ctrl.Reboot()

	case "setup-io":
		if err := needArgs(args, 2); err != nil {
			return err
		}
		return ctrl.SetupIO(args[0], args[1])

	case "vin":
		v, err := ctrl.SupplyVoltage()
		if err != nil {
			return err
		}
		fmt.Printf("%.2f V\n", v)
		return nil

	case "temp":
		v, err := ctrl.MicroTemperature()
		if err != nil {
			return err
		}
		fmt.Printf("%.0f °C\n", v)
		return nil

	case "probe":
		if err := needArgs(args, 1); err != nil {
			return err
		}
		v, err := ctrl.ProbeTemperature(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%.4f °C\n", v)
		return nil

	case "backup":
		ch, err := channelArg(args)
		if err != nil {
			return err
		}
		return backup(op, d, ch, o.out, log)

	case "restore":
		if err := needArgs(args, 1); err != nil {
			return err
		}
		return restore(op, d, args[0], log)

	case "reset":
		ch, err := channelArg(args)
		if err != nil {
			return err
		}
		out, err := device.Reset(op, ch)
		if err != nil {
			return err
		}
		printOutcomes(out)
		return out.Err()

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func needArgs(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

func channelArg(args []string) (int, error) {
	if err := needArgs(args, 1); err != nil {
		return 0, err
	}
	ch, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("channel %q: %w", args[0], err)
	}
	return ch, nil
}

func printOutcomes(out device.Outcomes) {
	for _, x := range out {
		status := "ok"
		if x.Err != nil {
			status = x.Err.Error()
		}
		fmt.Printf("%d\t%s\n", x.Address, status)
	}
}

func printSymbols() {
	syms := regmap.Symbols()
	names := make([]string, 0, len(syms))
	for n := range syms {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if syms[names[i]] != syms[names[j]] {
			return syms[names[i]] < syms[names[j]]
		}
		return names[i] < names[j]
	})
	for _, n := range names {
		fmt.Printf("%-12s %d\n", n, syms[n])
	}

	types := regmap.IOTypes()
	tnames := make([]string, 0, len(types))
	for n := range types {
		tnames = append(tnames, n)
	}
	sort.Strings(tnames)
	fmt.Println()
	for _, n := range tnames {
		fmt.Printf("%-22s 0b%08b\n", n, types[n])
	}
}

var errPartial = errors.New("partial failure")
