// Package scheduler — бесконечный цикл обработки кошельков.
//
// Run загружает кошельки один раз, затем повторяет:
//
//  1. Sweep: кошельки по порядку, по одному; прокси = proxies[i mod P]
//  2. пока флаг бонуса не выставлен — follow-бонус для каждого кошелька
//  3. флаг бонуса, SweepSummary, событие sweep.completed
//  4. пауза Cooldown (8h), прерываемая отменой context
//
// Каждый кошелёк и каждый бонус выполняются внутри границы изоляции:
// ошибка или panic одного кошелька не останавливает sweep.
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Source:    source.FileSource{Path: "wallets.json", Logger: logger},
//	    Proxies:   proxies,
//	    Processor: workflow.New(...),
//	    Publisher: publisher,  // опционально
//	    State:     state,
//	    Logger:    logger,
//	})
//
//	if err := sched.Run(ctx); err != nil {
//	    logger.Error("scheduler stopped", "error", err)
//	}
package scheduler
