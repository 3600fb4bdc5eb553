// Package cli реализует инструмент командной строки Paddock.
//
// # Обзор
//
// CLI собирает турнир из конфигурационного файла и управляет им
// напрямую, без промежуточного сервера: команды строят App — полный
// набор зависимостей (конфигурация, состав, хранилище рейтингов,
// очередь, движок) — и работают с ним в рамках одного процесса.
//
// # Ключевые компоненты
//
// ## App
//
// Контейнер зависимостей, собранный из paddock.yaml. App умеет
// строить гоночную сессию (Session) и контроллер турнира (Controller)
// с учётом флагов --simulate и --pause-sync.
//
//	app, err := cli.NewApp(ctx, "paddock.yaml", slog.Default())
//	ctrl, err := app.Controller(ctx, false, false)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: paddock ratings list --json | jq .
//
// ## Commands
//
//   - race: провести один заезд — явный состав или голова очереди
//   - loop: гонять заезды по расписанию, с HTTP-статусом на --addr
//   - ratings: list, reset
//   - slots: показать слоты гоночной конфигурации
//   - queue: показать очередь справедливости
//
// Каждая команда создаётся через фабричную функцию (NewRaceCmd и т.д.),
// принимающую appFn и outputFn — замыкания для ленивого создания
// App и Output после парсинга PersistentFlags.
package cli
