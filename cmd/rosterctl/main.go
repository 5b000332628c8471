package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/rosterops/rosterctl/logger"
	"github.com/rosterops/rosterctl/rosterctl/accountservice"
	"github.com/rosterops/rosterctl/rosterctl/config"
	"github.com/rosterops/rosterctl/rosterctl/directory"
	"github.com/rosterops/rosterctl/rosterctl/menu"
	"github.com/rosterops/rosterctl/rosterctl/provisioner"
	"github.com/rosterops/rosterctl/rosterctl/recordstore"
	"github.com/rosterops/rosterctl/rosterctl/roster"
)

var (
	configPath         string
	logFileName        string
	debug              bool
	bindPasswordPrompt bool
	log                = logrus.New()
)

func init() {
	flag.StringVar(&configPath, "config", "rosterctl.ini", "Path to the configuration file")
	flag.StringVar(&logFileName, "log", "rosterctl.log", "Log file name")
	flag.BoolVar(&debug, "debug", false, "Enable debug log level")
	flag.BoolVar(&bindPasswordPrompt, "bind-password", false, "Prompt for the directory bind password")
}

// noDirectory stands in for the provisioner when no directory server is
// configured; export reports the misconfiguration instead of crashing.
type noDirectory struct{}

func (noDirectory) ExportAll(roster.Roster) (provisioner.ExportSummary, error) {
	return provisioner.ExportSummary{}, fmt.Errorf("no directory server configured, set [directory] address in %s", configPath)
}

func main() {
	flag.Parse()

	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		logrus.Fatal(err)
	}
	defer file.Close()

	log.SetOutput(file)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if bindPasswordPrompt {
		fmt.Print("Enter the directory bind password: ")
		passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			log.Fatalf("Failed to read bind password: %v", err)
		}
		cfg.Directory.BindPassword = string(passwordBytes)
		fmt.Println()
	}

	componentLog := logger.New(debug)

	store := recordstore.NewFileRecordStore(cfg.Store.Path, cfg.Store.Separator)

	var accountOptions []accountservice.Option
	if cfg.Store.HashCredentials {
		accountOptions = append(accountOptions, accountservice.WithCredentialHashing())
	}
	accounts := accountservice.New(componentLog, accountOptions...)

	var exporter menu.Exporter = noDirectory{}
	if cfg.Directory.Address != "" {
		dir, err := directory.Connect(cfg.Directory)
		if err != nil {
			log.Fatalf("Failed to connect to directory: %v", err)
		}
		defer dir.Close()
		exporter = provisioner.New(dir, cfg.Mapping, cfg.Directory.DomainSuffix, componentLog)
	}

	m := menu.New(store, accounts, exporter, componentLog, os.Stdin, os.Stdout)
	if err := m.Run(); err != nil {
		log.Fatalf("Menu loop failed: %v", err)
	}
}
