// Package captcha решает challenge (Cloudflare Turnstile) faucet'а
// через внешний сервис распознавания.
//
// Провайдер выбирается селектором CAPTCHA_SOLVER_TYPE:
//   - "1" — 2Captcha (in.php / res.php)
//   - "2" — Anti-Captcha (createTask / getTaskResult)
//   - "3" — CapMonster Cloud (API совместим с Anti-Captcha)
//
// Селектор валидируется один раз при старте (ParseProvider), неверное
// значение — фатальная ошибка конфигурации.
//
// Использование:
//
//	solver, err := captcha.New(captcha.Config{
//	    APIKey:   cfg.Captcha.APIKey,
//	    Provider: captcha.Provider2Captcha,
//	})
//	token, err := solver.Solve(ctx)
//
// Solve блокирует до готовности токена, опрашивая сервис с PollInterval.
package captcha
