package main

import (
	"context"
	"fmt"
	"time"
)

func (cli *commandLine) copyWeek(classID, date string) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	lessons, err := cli.svc.CopyWeekFromStable(context.Background(), classID, day)
	if err != nil {
		return err
	}
	fmt.Printf("%d lesson(s) copied\n", len(lessons))
	return nil
}
