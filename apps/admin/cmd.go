package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/timetable"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *sql.DB
	svc    *timetable.Service
	subSvc *subject.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - apply database migrations (up, down, status, ...)")
	fmt.Println("  addclass -name NAME - create a new class")
	fmt.Println("  addsubject -name NAME [-teacher TEACHER] - create a new subject")
	fmt.Println("  copyweek -class ID -week DATE - copy a class's stable timetable into the week containing DATE (YYYY-MM-DD)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addClassCmd := flag.NewFlagSet("addclass", flag.ExitOnError)
	addClassName := addClassCmd.String("name", "", "The class name.")

	addSubjectCmd := flag.NewFlagSet("addsubject", flag.ExitOnError)
	addSubjectName := addSubjectCmd.String("name", "", "The subject name.")
	addSubjectTeacher := addSubjectCmd.String("teacher", "", "The assigned teacher's name. Optional.")

	copyWeekCmd := flag.NewFlagSet("copyweek", flag.ExitOnError)
	copyWeekClass := copyWeekCmd.String("class", "", "The class ID.")
	copyWeekDate := copyWeekCmd.String("week", "", "Any date (YYYY-MM-DD) within the target week.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addclass":
		if err := addClassCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addClassName == "" {
			addClassCmd.Usage()
			return errHelp
		}
		return cli.addClass(*addClassName)
	case "addsubject":
		if err := addSubjectCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addSubjectName == "" {
			addSubjectCmd.Usage()
			return errHelp
		}
		return cli.addSubject(*addSubjectName, *addSubjectTeacher)
	case "copyweek":
		if err := copyWeekCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *copyWeekClass == "" || *copyWeekDate == "" {
			copyWeekCmd.Usage()
			return errHelp
		}
		return cli.copyWeek(*copyWeekClass, *copyWeekDate)
	default:
		cli.printUsage()
		return errHelp
	}
}
