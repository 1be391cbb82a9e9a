package generate

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dhamidi/testgen/generate/naming"
	"github.com/dhamidi/testgen/java"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, path, source string) *java.ClassModel {
	t.Helper()
	result, err := java.NewExtractor().ExtractSource([]byte(source), path)
	require.NoError(t, err)
	require.Nil(t, result.Diagnostic)
	require.NotNil(t, result.Model)
	return result.Model
}

func generateOne(t *testing.T, g Generator, model *java.ClassModel) string {
	t.Helper()
	out, err := g.GenerateTest(model)
	require.NoError(t, err)
	return out.Content
}

const orderService = `package com.acme.orders;

import com.acme.customers.Customer;
import java.util.List;
import java.util.Optional;
import org.springframework.stereotype.Service;

@Service
public class OrderService {
    private final OrderRepository orderRepository;
    private final Notifier notifier;

    public OrderService(OrderRepository orderRepository, Notifier notifier) {
        this.orderRepository = orderRepository;
        this.notifier = notifier;
    }

    public Order find(Long id) {
        return orderRepository.findById(id).orElseThrow(() -> new OrderNotFoundException(id));
    }

    public List<Order> byCustomer(Customer customer) {
        return orderRepository.findByCustomer(customer);
    }

    public void cancel(Long id) {
        notifier.send(id);
    }

    public int getCount() {
        return 0;
    }

    private void audit() {
    }

    public static OrderService create() {
        return null;
    }
}
`

const userController = `package com.acme.web;

import org.springframework.web.bind.annotation.*;

@RestController
@RequestMapping("/api/users")
public class UserController {
    private final UserService userService;

    public UserController(UserService userService) {
        this.userService = userService;
    }

    @GetMapping("/{id}")
    public User get(@PathVariable Long id) {
        return userService.find(id);
    }

    @PostMapping
    public User create(@RequestBody User user) {
        return userService.create(user);
    }

    @GetMapping("/search")
    public List<User> search(@RequestParam("q") String query) {
        return userService.search(query);
    }

    public String helper() {
        return "x";
    }
}
`

const orderRepository = `package com.acme.orders;

import java.util.List;
import org.springframework.data.jpa.repository.JpaRepository;
import org.springframework.stereotype.Repository;

@Repository
public interface OrderRepository extends JpaRepository<Order, Long> {
    List<Order> findByCustomerName(String name);

    boolean existsByReference(String reference);

    long countByStatus(String status);

    void deleteByReference(String reference);
}
`

func TestServiceGenerator(t *testing.T) {
	model := extract(t, "OrderService.java", orderService)
	out, err := NewServiceGenerator(Options{}).GenerateTest(model)
	require.NoError(t, err)
	assert.Equal(t, KindUnit, out.Kind)
	assert.Equal(t, "com.acme.orders", out.Package)
	assert.Equal(t, "OrderServiceTest", out.TypeName)
	assert.Equal(t, "com/acme/orders/OrderServiceTest.java", out.Path())

	content := out.Content
	for _, want := range []string{
		"package com.acme.orders;\n",
		"import com.acme.customers.Customer;\n",
		"import java.util.List;\n",
		"import org.mockito.Mock;\n",
		"import static org.mockito.Mockito.verify;\n",
		"@ExtendWith(MockitoExtension.class)\nclass OrderServiceTest {\n",
		"    @Mock\n    private OrderRepository orderRepository;\n",
		"    @Mock\n    private Notifier notifier;\n",
		"    @InjectMocks\n    private OrderService orderService;\n",
		"    void testFind() {\n",
		"// when(orderRepository.findById(anyLong())).thenReturn(...);",
		"Order result = orderService.find(1L);",
		"verify(orderRepository).findById(anyLong());",
		"    void testFindThrowsOrderNotFoundException() {\n",
		"assertThrows(OrderNotFoundException.class, () -> orderService.find(1L));",
		"when(orderRepository.findByCustomer(any(Customer.class))).thenReturn(List.of());",
		"List<Order> result = orderService.byCustomer(mock(Customer.class));",
		"orderService.cancel(1L);\n",
		"verify(notifier).send(anyLong());",
		"    void testFindNullId() {\n",
		"    void testFindMinValueId() {\n",
		"assertDoesNotThrow(() -> orderService.byCustomer((Customer) null));",
	} {
		assert.Contains(t, content, want)
	}
	for _, unwanted := range []string{
		"import com.acme.orders.",
		"import java.util.Optional;",
		"testGetCount",
		"testAudit",
		"testCreate",
	} {
		assert.NotContains(t, content, unwanted)
	}
}

func TestControllerGeneratorEndpointPairs(t *testing.T) {
	model := extract(t, "UserController.java", userController)
	require.Equal(t, java.RoleController, model.Role())

	content := generateOne(t, NewControllerGenerator(Options{}), model)
	assert.True(t, strings.HasPrefix(content, "package com.acme.web;\n"))
	assert.Equal(t, 6, strings.Count(content, "@Test\n"))
	assert.Equal(t, 3, strings.Count(content, "status().isOk()"))
	assert.Equal(t, 3, strings.Count(content, "status().is4xxClientError()"))

	for _, want := range []string{
		"@WebMvcTest(UserController.class)\nclass UserControllerTest {\n",
		"    @Autowired\n    private MockMvc mockMvc;\n",
		"    @MockBean\n    private UserService userService;\n",
		"    void testGet() throws Exception {\n",
		"    void testGetInvalidRequest() throws Exception {\n",
		"when(userService.find(anyLong())).thenReturn(mock(User.class));",
		`mockMvc.perform(get("/api/users/{id}", 1L))`,
		`mockMvc.perform(get("/api/users/{id}", "invalid"))`,
		`mockMvc.perform(post("/api/users").contentType(MediaType.APPLICATION_JSON).content("{}"))`,
		`mockMvc.perform(post("/api/users").contentType(MediaType.APPLICATION_JSON).content("{invalid"))`,
		`mockMvc.perform(get("/api/users/search").param("q", "test"))`,
		"        mockMvc.perform(get(\"/api/users/search\"))\n                .andExpect(status().is4xxClientError());\n",
		"import static org.springframework.test.web.servlet.request.MockMvcRequestBuilders.post;\n",
		"import org.springframework.http.MediaType;\n",
	} {
		assert.Contains(t, content, want)
	}
	assert.NotContains(t, content, "testHelper")
}

func TestControllerWithoutEndpoints(t *testing.T) {
	model := java.NewClassModelBuilder("StatusController").
		Package("com.acme.web").
		Role(java.RoleController).
		Methods(java.MethodModel{Name: "describe", ReturnType: "String", Access: java.AccessPublic}).
		Build()

	content := generateOne(t, NewControllerGenerator(Options{}), model)
	assert.Equal(t, 1, strings.Count(content, "@Test\n"))
	assert.Contains(t, content, "    @Autowired\n    private StatusController statusController;\n")
	assert.Contains(t, content, "assertThat(statusController).isNotNull();")
}

func TestRepositoryGenerator(t *testing.T) {
	model := extract(t, "OrderRepository.java", orderRepository)
	content := generateOne(t, NewRepositoryGenerator(Options{}), model)

	for _, want := range []string{
		"@DataJpaTest\nclass OrderRepositoryTest {\n",
		"    @Autowired\n    private TestEntityManager entityManager;\n",
		"    @Autowired\n    private OrderRepository orderRepository;\n",
		"// persist matching Order rows with entityManager.persistAndFlush(...)",
		`List<Order> result = orderRepository.findByCustomerName("test");`,
		`boolean result = orderRepository.existsByReference("test");`,
		`long result = orderRepository.countByStatus("test");`,
		`orderRepository.deleteByReference("test");`,
		"import java.util.List;\n",
	} {
		assert.Contains(t, content, want)
	}
	assert.Equal(t, 4, strings.Count(content, "@Test\n"))
}

func TestRepositoryWithoutMethods(t *testing.T) {
	model := extract(t, "TagRepository.java", `package com.acme.tags;

import org.springframework.data.repository.CrudRepository;
import org.springframework.stereotype.Repository;

@Repository
public interface TagRepository extends CrudRepository<Tag, Long> {
}
`)
	content := generateOne(t, NewRepositoryGenerator(Options{}), model)
	assert.Equal(t, 1, strings.Count(content, "@Test\n"))
	assert.Contains(t, content, "void testInitialize() {")
}

func TestIntegrationGenerator(t *testing.T) {
	g := NewIntegrationGenerator(Options{})

	service := generateOne(t, g, extract(t, "OrderService.java", orderService))
	assert.Contains(t, service, "@SpringBootTest\nclass OrderServiceIntegrationTest {\n")
	assert.Contains(t, service, "    @Autowired\n    private OrderService orderService;\n")
	assert.Contains(t, service, "    @Autowired\n    private OrderRepository orderRepository;\n")
	assert.Contains(t, service, "// uses the beans of the application context")
	assert.NotContains(t, service, "when(")
	assert.NotContains(t, service, "verify(")
	assert.NotContains(t, service, "@AutoConfigureMockMvc")

	controller := generateOne(t, g, extract(t, "UserController.java", userController))
	assert.Contains(t, controller, "@SpringBootTest\n@AutoConfigureMockMvc\nclass UserControllerIntegrationTest {\n")
	assert.Equal(t, 3, strings.Count(controller, "status().isOk()"))
	assert.NotContains(t, controller, "is4xxClientError")
	assert.NotContains(t, controller, "@MockBean")
}

const userDao = `package com.acme.users;

import java.io.IOException;
import java.util.List;
import org.springframework.beans.factory.annotation.Autowired;
import org.springframework.jdbc.core.JdbcTemplate;
import org.springframework.stereotype.Repository;

@Repository
public class UserDao {
    @Autowired
    private JdbcTemplate jdbc;

    public List<User> loadAll() throws IOException {
        return List.of();
    }

    public User findByName(String name) throws IOException {
        return null;
    }
}
`

func TestRepositoryGeneratorCoversEveryMethod(t *testing.T) {
	model := extract(t, "UserDao.java", userDao)
	content := generateOne(t, NewRepositoryGenerator(Options{}), model)

	for _, want := range []string{
		"import java.io.IOException;\n",
		"import org.springframework.jdbc.core.JdbcTemplate;\n",
		"    @Autowired\n    private JdbcTemplate jdbc;\n",
		"    void testLoadAll() throws Exception {\n",
		"// uses the beans of the application context",
		"List<User> result = userDao.loadAll();",
		"assertThat(result).isNotEmpty();",
		"    void testLoadAllThrowsIOException() {\n",
		"assertThrows(IOException.class, () -> userDao.loadAll());",
		"    void testFindByName() throws Exception {\n",
		"// persist matching entity rows with entityManager.persistAndFlush(...)",
		`User result = userDao.findByName("test");`,
		"assertThat(result).isNotNull();",
		"    void testFindByNameThrowsIOException() {\n",
	} {
		assert.Contains(t, content, want)
	}
	assert.Equal(t, 4, strings.Count(content, "@Test\n"))
}

const sums = `package com.acme.math;

import java.io.IOException;
import java.util.List;
import org.springframework.stereotype.%[1]s;

@%[1]s
public class Sums {
    public List<? extends Number> total(List<? super Integer> values) throws IOException {
        return List.of();
    }
}
`

func sumsModel(t *testing.T, role string) *java.ClassModel {
	t.Helper()
	return extract(t, "Sums.java", fmt.Sprintf(sums, role))
}

func TestCheckedExceptionsInEveryGenerator(t *testing.T) {
	tests := []struct {
		role string
		g    Generator
	}{
		{"Service", NewServiceGenerator(Options{})},
		{"Component", NewComponentGenerator(Options{})},
		{"Repository", NewRepositoryGenerator(Options{})},
		{"Service", NewIntegrationGenerator(Options{})},
		{"Repository", NewIntegrationGenerator(Options{})},
	}
	for _, tt := range tests {
		t.Run(tt.g.Name()+"/"+tt.role, func(t *testing.T) {
			content := generateOne(t, tt.g, sumsModel(t, tt.role))
			assert.Contains(t, content, "    void testTotal() throws Exception {\n")
			assert.Contains(t, content, "    void testTotalThrowsIOException() {\n")
			assert.Contains(t, content, "assertThrows(IOException.class, () -> sums.total(List.of()));")
			assert.Contains(t, content, "import java.io.IOException;\n")
		})
	}
}

func TestWildcardTypesReachGeneratedCode(t *testing.T) {
	model := sumsModel(t, "Service")
	methods := model.Methods()
	require.Len(t, methods, 1)
	assert.Equal(t, "List<? extends Number>", methods[0].ReturnType)
	require.Len(t, methods[0].Parameters, 1)
	assert.Equal(t, "List<? super Integer>", methods[0].Parameters[0].Type)

	content := generateOne(t, NewServiceGenerator(Options{}), model)
	assert.Contains(t, content, "List<? extends Number> result = sums.total(List.of());")
	assert.Contains(t, content, "assertDoesNotThrow(() -> sums.total((List<? super Integer>) null));")
	assert.NotContains(t, content, "?extends")
	assert.NotContains(t, content, "?super")

	integration := generateOne(t, NewIntegrationGenerator(Options{}), model)
	assert.Contains(t, integration, "List<? extends Number> result = sums.total(List.of());")
}

func TestInitializationOnlyOutput(t *testing.T) {
	model := java.NewClassModelBuilder("Clock").
		Package("com.acme").
		Role(java.RoleService).
		Methods(
			java.MethodModel{Name: "getZone", ReturnType: "String", Access: java.AccessPublic},
			java.MethodModel{Name: "now", ReturnType: "long", Access: java.AccessPublic, Static: true},
		).
		Build()

	want := `package com.acme;

import org.junit.jupiter.api.Test;
import org.junit.jupiter.api.extension.ExtendWith;
import org.mockito.InjectMocks;
import org.mockito.junit.jupiter.MockitoExtension;

import static org.assertj.core.api.Assertions.assertThat;

@ExtendWith(MockitoExtension.class)
class ClockTest {

    @InjectMocks
    private Clock clock;

    @Test
    void testInitialize() {
        // Assert
        assertThat(clock).isNotNull();
    }
}
`
	assert.Equal(t, want, generateOne(t, NewServiceGenerator(Options{}), model))
}

func TestSupportsMatchesRole(t *testing.T) {
	roles := []java.Role{
		java.RoleController, java.RoleService, java.RoleRepository,
		java.RoleComponent, java.RoleConfiguration, java.RoleOther,
	}
	bound := map[string]java.Role{
		"controller": java.RoleController,
		"service":    java.RoleService,
		"repository": java.RoleRepository,
		"component":  java.RoleComponent,
	}
	for _, g := range NewDispatcher(Options{}).Generators() {
		for _, role := range roles {
			model := java.NewClassModelBuilder("Subject").Role(role).Build()
			want := role != java.RoleOther
			if r, ok := bound[g.Name()]; ok {
				want = role == r
			}
			assert.Equal(t, want, g.Supports(model), "%s generator, role %s", g.Name(), role)

			_, err := g.GenerateTest(model)
			if want {
				assert.NoError(t, err, "%s generator, role %s", g.Name(), role)
			} else {
				assert.ErrorIs(t, err, ErrUnsupportedRole, "%s generator, role %s", g.Name(), role)
			}
		}
	}
}

func TestGenerateTestRejectsNilModel(t *testing.T) {
	_, err := NewServiceGenerator(Options{}).GenerateTest(nil)
	assert.ErrorIs(t, err, java.ErrInvalidArgument)
}

func TestDispatcherFanOut(t *testing.T) {
	model := extract(t, "UserController.java", userController)
	tests := []struct {
		testType TestType
		want     []string
	}{
		{TestBoth, []string{"UserControllerTest", "UserControllerIntegrationTest"}},
		{TestUnit, []string{"UserControllerTest"}},
		{TestIntegration, []string{"UserControllerIntegrationTest"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.testType), func(t *testing.T) {
			outputs, err := NewDispatcher(Options{TestType: tt.testType}).Generate(model)
			require.NoError(t, err)
			var names []string
			for _, o := range outputs {
				names = append(names, o.TypeName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestDispatcherSkipsOtherRole(t *testing.T) {
	model := java.NewClassModelBuilder("Money").Package("com.acme").Build()
	require.Equal(t, java.RoleOther, model.Role())
	outputs, err := NewDispatcher(Options{}).Generate(model)
	require.NoError(t, err)
	assert.Empty(t, outputs)
}

func TestGenerateAllKeepsSiblingOutputs(t *testing.T) {
	service := extract(t, "OrderService.java", orderService)
	outputs, err := NewDispatcher(Options{TestType: TestUnit}).GenerateAll([]*java.ClassModel{nil, service})
	require.Error(t, err)
	assert.True(t, errors.Is(err, java.ErrInvalidArgument))
	require.Len(t, outputs, 1)
	assert.Equal(t, "OrderServiceTest", outputs[0].TypeName)
}

func TestNamingStrategyOption(t *testing.T) {
	model := extract(t, "OrderService.java", orderService)
	content := generateOne(t, NewServiceGenerator(Options{Naming: naming.BDD{}}), model)
	assert.Contains(t, content, "void shouldFind_whenValidInput() {")
	assert.Contains(t, content, "void shouldThrowOrderNotFoundException_whenFind() {")
	assert.NotContains(t, content, "void testFind")
}

func TestParseTestType(t *testing.T) {
	for in, want := range map[string]TestType{"": TestBoth, "unit": TestUnit, "Integration": TestIntegration, "both": TestBoth} {
		got, err := ParseTestType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTestType("smoke")
	assert.ErrorIs(t, err, java.ErrInvalidArgument)
}
