// Package scheduler выбирает участников и задаёт темп заездов.
//
// Структура:
//   - queue.go  — очередь справедливости по маркерам «последний заезд»
//   - pacing.go — расписание стартов: cron-выражение или интервал
//
// Использование:
//
//	queue := scheduler.NewQueue(scheduler.QueueConfig{
//	    MarkerName: ".last-raced",
//	})
//
//	next, err := queue.Select(ctx, competitors, slots)
//	// ... заезд ...
//	if err := queue.Requeue(ctx, next); err != nil { ... }
//
// Очередь хранит состояние в файловой системе: время модификации
// маркера в директории участника и есть его позиция. Блокировок
// между процессами нет, очередь рассчитана на один турнир
// над набором директорий.
package scheduler
